package domain

import "time"

// Tenant is a property (guesthouse, lodge, hotel) hosted on the platform.
// Currency set here is inherited by the tenant's rooms and quotes.
type Tenant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Slug      string    `json:"slug" validate:"required"`
	Currency  string    `json:"currency" validate:"required,len=3"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
