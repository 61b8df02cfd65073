package domain

import "time"

type BookingStatus string

const (
	BookingPending       BookingStatus = "pending"
	BookingConfirmed     BookingStatus = "confirmed"
	BookingCheckedIn     BookingStatus = "checked_in"
	BookingCheckedOut    BookingStatus = "checked_out"
	BookingCancelled     BookingStatus = "cancelled"
	BookingCompleted     BookingStatus = "completed"
	BookingPaymentFailed BookingStatus = "payment_failed"
	BookingCartAbandoned BookingStatus = "cart_abandoned"
)

// BlockingStatuses are the lifecycle states that occupy a unit for conflict
// purposes. Cancelled and failed bookings never block availability.
var BlockingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingCheckedIn,
}

// Blocks reports whether a booking in status s counts against room capacity.
func (s BookingStatus) Blocks() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCheckedIn
}

// Retryable reports whether a failed booking may be re-priced and re-armed.
func (s BookingStatus) Retryable() bool {
	return s == BookingPaymentFailed || s == BookingCartAbandoned
}

// Terminal reports whether the booking can no longer change state.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// Booking occupies [CheckIn, CheckOut): the guest holds the nights from
// check-in up to, but not including, check-out.
type Booking struct {
	ID                 int64         `json:"id"`
	Reference          string        `json:"reference"`
	TenantID           int64         `json:"tenant_id"`
	RoomID             int64         `json:"room_id" validate:"required"`
	GuestName          string        `json:"guest_name" validate:"required"`
	GuestEmail         string        `json:"guest_email" validate:"required,email"`
	CheckIn            time.Time     `json:"check_in" validate:"required"`
	CheckOut           time.Time     `json:"check_out" validate:"required"`
	Status             BookingStatus `json:"status"`
	BaseTotal          float64       `json:"base_total"`
	AddOnsTotal        float64       `json:"addons_total"`
	TotalAmount        float64       `json:"total_amount"`
	Currency           string        `json:"currency"`
	NightCount         int           `json:"night_count"`
	Breakdown          string        `json:"breakdown,omitempty" gorm:"type:text"`
	Notes              string        `json:"notes,omitempty" gorm:"type:text"`
	CancellationReason string        `json:"cancellation_reason,omitempty" gorm:"type:text"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`

	// Relations
	AddOns []BookingAddOn `json:"addons,omitempty" gorm:"foreignKey:BookingID"`
	Room   *Room          `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}
