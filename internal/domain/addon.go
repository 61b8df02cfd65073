package domain

import "time"

// AddOn is an extra a guest can attach to a booking (breakfast, transfer).
type AddOn struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Name      string    `json:"name" validate:"required"`
	Price     float64   `json:"price" validate:"gte=0"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingAddOn is an add-on selection denormalized onto a booking. Name and
// price are copied at booking time so later catalog edits do not reprice
// existing bookings.
type BookingAddOn struct {
	ID        int64   `json:"id"`
	BookingID int64   `json:"booking_id"`
	AddOnID   int64   `json:"addon_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}
