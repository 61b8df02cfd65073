package domain

import "time"

// SeasonalRate overrides a room's nightly price inside the closed window
// [StartDate, EndDate]. Windows may overlap; the numerically highest
// priority wins for a given night.
type SeasonalRate struct {
	ID            int64     `json:"id"`
	TenantID      int64     `json:"tenant_id"`
	RoomID        int64     `json:"room_id" validate:"required"`
	Name          string    `json:"name" validate:"required"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	EndDate       time.Time `json:"end_date" validate:"required"`
	PricePerNight float64   `json:"price_per_night" validate:"required,gte=0"`
	Priority      int       `json:"priority"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
