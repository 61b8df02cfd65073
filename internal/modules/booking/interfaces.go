package booking

import (
	"context"
	"time"

	"lodging/internal/domain"
)

// BookingRepository is the persistence surface the booking flow needs. The
// capacity-guarded writes close the check-then-insert race at the data
// layer.
type BookingRepository interface {
	CountOverlapping(ctx context.Context, tenantID, roomID int64, checkIn, checkOut time.Time, excludeID int64) (int64, error)
	CreateWithCapacityGuard(ctx context.Context, b *domain.Booking) error
	ReactivateWithCapacityGuard(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Booking, error)
	ListByRoom(ctx context.Context, tenantID, roomID int64, limit, offset int) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, tenantID, id int64, status domain.BookingStatus) error
	CancelWithReason(ctx context.Context, tenantID, id int64, reason string) error
	ReplaceAddOns(ctx context.Context, tenantID, id int64, addOns []domain.BookingAddOn, addOnsTotal, totalAmount float64) error
}

type RoomRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Room, error)
}

type RateRepository interface {
	ListForStay(ctx context.Context, tenantID, roomID int64, checkIn, checkOut time.Time) ([]domain.SeasonalRate, error)
}

type AddOnRepository interface {
	GetByIDs(ctx context.Context, tenantID int64, ids []int64) ([]domain.AddOn, error)
}

// AvailabilityNotifier pushes occupancy changes to connected booking
// wizards so open calendars refresh.
type AvailabilityNotifier interface {
	NotifyRoomChanged(roomID int64, checkIn, checkOut string)
}
