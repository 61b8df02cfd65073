package domain

import "time"

// Room is a bookable unit type. TotalUnits > 1 means the room represents
// that many interchangeable physical units, so several stays can overlap
// before it is fully booked.
type Room struct {
	ID                int64     `json:"id"`
	TenantID          int64     `json:"tenant_id"`
	Name              string    `json:"name" validate:"required"`
	Description       string    `json:"description,omitempty"`
	BasePricePerNight float64   `json:"base_price_per_night" validate:"required,gte=0"`
	Currency          string    `json:"currency" validate:"required,len=3"`
	TotalUnits        int       `json:"total_units" validate:"required,gt=0"`
	MaxGuests         int       `json:"max_guests,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Relations
	SeasonalRates []SeasonalRate `json:"seasonal_rates,omitempty" gorm:"foreignKey:RoomID"`
}
