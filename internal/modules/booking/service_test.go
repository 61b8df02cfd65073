package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"lodging/internal/domain"
	"lodging/internal/repository"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CountOverlapping(ctx context.Context, tenantID, roomID int64, checkIn, checkOut time.Time, excludeID int64) (int64, error) {
	args := m.Called(ctx, tenantID, roomID, checkIn, checkOut, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) CreateWithCapacityGuard(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) ReactivateWithCapacityGuard(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByRoom(ctx context.Context, tenantID, roomID int64, limit, offset int) ([]domain.Booking, error) {
	args := m.Called(ctx, tenantID, roomID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, tenantID, id int64, status domain.BookingStatus) error {
	args := m.Called(ctx, tenantID, id, status)
	return args.Error(0)
}

func (m *MockBookingRepository) CancelWithReason(ctx context.Context, tenantID, id int64, reason string) error {
	args := m.Called(ctx, tenantID, id, reason)
	return args.Error(0)
}

func (m *MockBookingRepository) ReplaceAddOns(ctx context.Context, tenantID, id int64, addOns []domain.BookingAddOn, addOnsTotal, totalAmount float64) error {
	args := m.Called(ctx, tenantID, id, addOns, addOnsTotal, totalAmount)
	return args.Error(0)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Room, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) ListForStay(ctx context.Context, tenantID, roomID int64, checkIn, checkOut time.Time) ([]domain.SeasonalRate, error) {
	args := m.Called(ctx, tenantID, roomID, checkIn, checkOut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeasonalRate), args.Error(1)
}

type MockAddOnRepository struct {
	mock.Mock
}

func (m *MockAddOnRepository) GetByIDs(ctx context.Context, tenantID int64, ids []int64) ([]domain.AddOn, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AddOn), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyRoomChanged(roomID int64, checkIn, checkOut string) {
	m.Called(roomID, checkIn, checkOut)
}

func testRoom() *domain.Room {
	return &domain.Room{
		ID:                10,
		TenantID:          1,
		Name:              "Garden Suite",
		BasePricePerNight: 1000,
		Currency:          "ZAR",
		TotalUnits:        1,
		IsActive:          true,
	}
}

func decemberRates() []domain.SeasonalRate {
	return []domain.SeasonalRate{
		{
			ID: 1, TenantID: 1, RoomID: 10, Name: "December",
			StartDate:     time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC),
			EndDate:       time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			PricePerNight: 1500, Priority: 1,
		},
		{
			ID: 2, TenantID: 1, RoomID: 10, Name: "Christmas",
			StartDate:     time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC),
			EndDate:       time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC),
			PricePerNight: 2500, Priority: 5,
		},
	}
}

func newTestService() (*Service, *MockBookingRepository, *MockRoomRepository, *MockRateRepository, *MockAddOnRepository) {
	bookings := new(MockBookingRepository)
	rooms := new(MockRoomRepository)
	rates := new(MockRateRepository)
	addOns := new(MockAddOnRepository)
	svc := NewService(bookings, rooms, rates, addOns, nil)
	return svc, bookings, rooms, rates, addOns
}

func TestService_Quote_DecemberScenario(t *testing.T) {
	svc, _, rooms, rates, addOns := newTestService()

	rooms.On("GetByID", mock.Anything, int64(1), int64(10)).Return(testRoom(), nil)
	rates.On("ListForStay", mock.Anything, int64(1), int64(10), mock.Anything, mock.Anything).Return(decemberRates(), nil)
	addOns.On("GetByIDs", mock.Anything, int64(1), []int64{7}).Return([]domain.AddOn{
		{ID: 7, TenantID: 1, Name: "Breakfast", Price: 150, IsActive: true},
	}, nil)

	q, err := svc.Quote(context.Background(), 1, QuoteRequest{
		RoomID:   10,
		CheckIn:  "2024-12-23",
		CheckOut: "2024-12-27",
		AddOns:   []AddOnInput{{ID: 7, Quantity: 2}},
	})

	assert.NoError(t, err)
	assert.Equal(t, 4, q.NightCount)
	assert.Equal(t, "ZAR", q.Currency)
	assert.Equal(t, 8500.0, q.Subtotal)
	assert.Equal(t, 300.0, q.AddOnsTotal)
	assert.Equal(t, 8800.0, q.TotalAmount)
}

func TestService_Quote_RateLookupFailsOpen(t *testing.T) {
	svc, _, rooms, rates, _ := newTestService()

	rooms.On("GetByID", mock.Anything, int64(1), int64(10)).Return(testRoom(), nil)
	rates.On("ListForStay", mock.Anything, int64(1), int64(10), mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	q, err := svc.Quote(context.Background(), 1, QuoteRequest{
		RoomID:   10,
		CheckIn:  "2024-12-23",
		CheckOut: "2024-12-27",
	})

	assert.NoError(t, err)
	assert.Equal(t, 4000.0, q.TotalAmount) // base price every night
	for _, n := range q.Nights {
		assert.Nil(t, n.RateName)
	}
}

func TestService_Quote_InvalidRange(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.Quote(context.Background(), 1, QuoteRequest{
		RoomID:   10,
		CheckIn:  "2024-12-27",
		CheckOut: "2024-12-27",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Quote_InactiveRoom(t *testing.T) {
	svc, _, rooms, _, _ := newTestService()

	room := testRoom()
	room.IsActive = false
	rooms.On("GetByID", mock.Anything, int64(1), int64(10)).Return(room, nil)

	_, err := svc.Quote(context.Background(), 1, QuoteRequest{
		RoomID:   10,
		CheckIn:  "2024-12-23",
		CheckOut: "2024-12-27",
	})

	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestService_CreateBooking_Success(t *testing.T) {
	svc, bookings, rooms, rates, _ := newTestService()

	rooms.On("GetByID", mock.Anything, int64(1), int64(10)).Return(testRoom(), nil)
	bookings.On("CountOverlapping", mock.Anything, int64(1), int64(10), mock.Anything, mock.Anything, int64(0)).
		Return(int64(0), nil)
	rates.On("ListForStay", mock.Anything, int64(1), int64(10), mock.Anything, mock.Anything).Return(decemberRates(), nil)
	bookings.On("CreateWithCapacityGuard", mock.Anything, mock.Anything).Return(nil)

	b, err := svc.CreateBooking(context.Background(), 1, CreateBookingRequest{
		RoomID:     10,
		GuestName:  "Thandi M",
		GuestEmail: "thandi@example.com",
		CheckIn:    "2024-12-23",
		CheckOut:   "2024-12-27",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, 8500.0, b.BaseTotal)
	assert.Equal(t, 8500.0, b.TotalAmount)
	assert.Equal(t, "ZAR", b.Currency)
	assert.Equal(t, 4, b.NightCount)
	assert.NotEmpty(t, b.Reference)
	assert.Contains(t, b.Breakdown, "2024-12-24")
}

func TestService_CreateBooking_CapacityFull(t *testing.T) {
	svc, bookings, rooms, _, _ := newTestService()

	room := testRoom()
	room.TotalUnits = 2
	rooms.On("GetByID", mock.Anything, int64(1), int64(10)).Return(room, nil)
	bookings.On("CountOverlapping", mock.Anything, int64(1), int64(10), mock.Anything, mock.Anything, int64(0)).
		Return(int64(2), nil)

	_, err := svc.CreateBooking(context.Background(), 1, CreateBookingRequest{
		RoomID:     10,
		GuestName:  "Thandi M",
		GuestEmail: "thandi@example.com",
		CheckIn:    "2024-12-23",
		CheckOut:   "2024-12-27",
	})

	assert.ErrorIs(t, err, ErrNotAvailable)
	bookings.AssertNotCalled(t, "CreateWithCapacityGuard", mock.Anything, mock.Anything)
}

func TestService_CreateBooking_CommitConflict(t *testing.T) {
	svc, bookings, rooms, rates, _ := newTestService()

	rooms.On("GetByID", mock.Anything, int64(1), int64(10)).Return(testRoom(), nil)
	bookings.On("CountOverlapping", mock.Anything, int64(1), int64(10), mock.Anything, mock.Anything, int64(0)).
		Return(int64(0), nil)
	rates.On("ListForStay", mock.Anything, int64(1), int64(10), mock.Anything, mock.Anything).Return([]domain.SeasonalRate{}, nil)
	bookings.On("CreateWithCapacityGuard", mock.Anything, mock.Anything).Return(repository.ErrCapacityExceeded)

	_, err := svc.CreateBooking(context.Background(), 1, CreateBookingRequest{
		RoomID:     10,
		GuestName:  "Thandi M",
		GuestEmail: "thandi@example.com",
		CheckIn:    "2024-12-23",
		CheckOut:   "2024-12-27",
	})

	assert.ErrorIs(t, err, ErrCommitConflict)
}

func TestService_RetryBooking_ExcludesSelf(t *testing.T) {
	svc, bookings, rooms, rates, _ := newTestService()

	failed := &domain.Booking{
		ID:       42,
		TenantID: 1,
		RoomID:   10,
		CheckIn:  time.Date(2024, 12, 23, 12, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2024, 12, 27, 12, 0, 0, 0, time.UTC),
		Status:   domain.BookingPaymentFailed,
		Currency: "ZAR",
	}
	bookings.On("GetByID", mock.Anything, int64(1), int64(42)).Return(failed, nil)
	rooms.On("GetByID", mock.Anything, int64(1), int64(10)).Return(testRoom(), nil)
	bookings.On("CountOverlapping", mock.Anything, int64(1), int64(10), mock.Anything, mock.Anything, int64(42)).
		Return(int64(0), nil)
	rates.On("ListForStay", mock.Anything, int64(1), int64(10), mock.Anything, mock.Anything).Return(decemberRates(), nil)
	bookings.On("ReactivateWithCapacityGuard", mock.Anything, mock.Anything).Return(nil)

	b, err := svc.RetryBooking(context.Background(), 1, 42)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, 8500.0, b.TotalAmount)
	bookings.AssertCalled(t, "CountOverlapping", mock.Anything, int64(1), int64(10), mock.Anything, mock.Anything, int64(42))
}

func TestService_RetryBooking_NotRetryable(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	confirmed := &domain.Booking{ID: 42, TenantID: 1, RoomID: 10, Status: domain.BookingConfirmed}
	bookings.On("GetByID", mock.Anything, int64(1), int64(42)).Return(confirmed, nil)

	_, err := svc.RetryBooking(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrNotRetryable)
}

func TestService_UpdateAddOns_FrozenBaseTotal(t *testing.T) {
	svc, bookings, _, _, addOns := newTestService()

	booked := &domain.Booking{
		ID:          42,
		TenantID:    1,
		RoomID:      10,
		Status:      domain.BookingConfirmed,
		BaseTotal:   8500,
		AddOnsTotal: 300,
		TotalAmount: 8800,
		Currency:    "ZAR",
		NightCount:  4,
	}
	bookings.On("GetByID", mock.Anything, int64(1), int64(42)).Return(booked, nil)
	addOns.On("GetByIDs", mock.Anything, int64(1), []int64{7}).Return([]domain.AddOn{
		{ID: 7, TenantID: 1, Name: "Breakfast", Price: 150, IsActive: true},
	}, nil)
	bookings.On("ReplaceAddOns", mock.Anything, int64(1), int64(42), mock.Anything, 600.0, 9100.0).Return(nil)

	_, err := svc.UpdateAddOns(context.Background(), 1, 42, UpdateAddOnsRequest{
		AddOns: []AddOnInput{{ID: 7, Quantity: 4}},
	})

	assert.NoError(t, err)
	bookings.AssertCalled(t, "ReplaceAddOns", mock.Anything, int64(1), int64(42), mock.Anything, 600.0, 9100.0)
}

func TestService_UpdateAddOns_UnknownAddOn(t *testing.T) {
	svc, bookings, _, _, addOns := newTestService()

	booked := &domain.Booking{ID: 42, TenantID: 1, Status: domain.BookingConfirmed, BaseTotal: 8500, Currency: "ZAR", NightCount: 4}
	bookings.On("GetByID", mock.Anything, int64(1), int64(42)).Return(booked, nil)
	addOns.On("GetByIDs", mock.Anything, int64(1), []int64{99}).Return([]domain.AddOn{}, nil)

	_, err := svc.UpdateAddOns(context.Background(), 1, 42, UpdateAddOnsRequest{
		AddOns: []AddOnInput{{ID: 99, Quantity: 1}},
	})

	assert.ErrorIs(t, err, ErrAddOnNotFound)
}

func TestService_UpdateStatus_InvalidTransition(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	b := &domain.Booking{ID: 42, TenantID: 1, Status: domain.BookingPending}
	bookings.On("GetByID", mock.Anything, int64(1), int64(42)).Return(b, nil)

	_, err := svc.UpdateStatus(context.Background(), 1, 42, "checked_out")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestService_CancelBooking_TerminalState(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	b := &domain.Booking{ID: 42, TenantID: 1, Status: domain.BookingCompleted}
	bookings.On("GetByID", mock.Anything, int64(1), int64(42)).Return(b, nil)

	_, err := svc.CancelBooking(context.Background(), 1, 42, "plans changed")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestService_GetBooking_NotFound(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	bookings.On("GetByID", mock.Anything, int64(1), int64(42)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetBooking(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
