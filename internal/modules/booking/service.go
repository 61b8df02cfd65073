package booking

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lodging/internal/domain"
	"lodging/internal/pkg/validator"
	"lodging/internal/pricing"
	"lodging/internal/repository"
)

// allowedTransitions is the staff-driven lifecycle. Cancellation goes
// through CancelBooking instead, which accepts any non-terminal state.
var allowedTransitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingPending:       {domain.BookingConfirmed, domain.BookingPaymentFailed, domain.BookingCartAbandoned},
	domain.BookingConfirmed:     {domain.BookingCheckedIn},
	domain.BookingCheckedIn:     {domain.BookingCheckedOut},
	domain.BookingCheckedOut:    {domain.BookingCompleted},
	domain.BookingPaymentFailed: {},
	domain.BookingCartAbandoned: {},
}

type Service struct {
	bookings BookingRepository
	rooms    RoomRepository
	rates    RateRepository
	addOns   AddOnRepository
	notifier AvailabilityNotifier
}

func NewService(
	bookings BookingRepository,
	rooms RoomRepository,
	rates RateRepository,
	addOns AddOnRepository,
	notifier AvailabilityNotifier,
) *Service {
	return &Service{
		bookings: bookings,
		rooms:    rooms,
		rates:    rates,
		addOns:   addOns,
		notifier: notifier,
	}
}

func (s *Service) parseStay(checkIn, checkOut string) (pricing.StayRange, error) {
	in, err := pricing.ParseDate(checkIn)
	if err != nil {
		return pricing.StayRange{}, ErrValidation
	}
	out, err := pricing.ParseDate(checkOut)
	if err != nil {
		return pricing.StayRange{}, ErrValidation
	}
	stay, err := pricing.NewStayRange(in, out)
	if err != nil {
		return pricing.StayRange{}, ErrValidation
	}
	return stay, nil
}

// loadActiveRoom treats an inactive room the same as a missing one; the
// engine never prices a room it cannot find.
func (s *Service) loadActiveRoom(ctx context.Context, tenantID, roomID int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, tenantID, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if !room.IsActive {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// ratesForStay fails open: a rate-lookup error degrades pricing to the base
// price instead of blocking the booking flow.
func (s *Service) ratesForStay(ctx context.Context, tenantID, roomID int64, stay pricing.StayRange) []domain.SeasonalRate {
	rates, err := s.rates.ListForStay(ctx, tenantID, roomID, stay.CheckIn, stay.CheckOut)
	if err != nil {
		log.Printf("rate_lookup_failed tenant_id=%d room_id=%d error=%q fallback=base_price", tenantID, roomID, err)
		return nil
	}
	return rates
}

// resolveSelections turns add-on inputs into priced selections from the
// tenant's catalog. Unknown or inactive IDs reject the request.
func (s *Service) resolveSelections(ctx context.Context, tenantID int64, inputs []AddOnInput) ([]pricing.AddOnSelection, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ID)
	}

	catalog, err := s.addOns.GetByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]domain.AddOn, len(catalog))
	for _, a := range catalog {
		byID[a.ID] = a
	}

	out := make([]pricing.AddOnSelection, 0, len(inputs))
	for _, in := range inputs {
		a, ok := byID[in.ID]
		if !ok {
			return nil, ErrAddOnNotFound
		}
		out = append(out, pricing.AddOnSelection{
			ID:       a.ID,
			Name:     a.Name,
			Price:    a.Price,
			Quantity: in.Quantity,
		})
	}
	return out, nil
}

// Quote prices a stay without touching booking state.
func (s *Service) Quote(ctx context.Context, tenantID int64, req QuoteRequest) (*pricing.Quote, error) {
	stay, err := s.parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	room, err := s.loadActiveRoom(ctx, tenantID, req.RoomID)
	if err != nil {
		return nil, err
	}

	selections, err := s.resolveSelections(ctx, tenantID, req.AddOns)
	if err != nil {
		return nil, err
	}

	rates := s.ratesForStay(ctx, tenantID, room.ID, stay)
	return pricing.BuildQuote(room, rates, selections, stay), nil
}

// CheckAvailability counts blocking bookings that overlap the stay against
// the room's unit capacity. excludeBookingID skips a booking re-checking
// itself.
func (s *Service) CheckAvailability(ctx context.Context, tenantID, roomID int64, checkIn, checkOut string, excludeBookingID int64) (*AvailabilityResponse, error) {
	stay, err := s.parseStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	room, err := s.loadActiveRoom(ctx, tenantID, roomID)
	if err != nil {
		return nil, err
	}

	cnt, err := s.bookings.CountOverlapping(ctx, tenantID, roomID, stay.CheckIn, stay.CheckOut, excludeBookingID)
	if err != nil {
		return nil, err
	}

	return &AvailabilityResponse{
		RoomID:      room.ID,
		CheckIn:     stay.CheckIn.Format(pricing.DateLayout),
		CheckOut:    stay.CheckOut.Format(pricing.DateLayout),
		TotalUnits:  room.TotalUnits,
		BookedUnits: int(cnt),
		Available:   cnt < int64(room.TotalUnits),
	}, nil
}

// CreateBooking runs the full flow: validate, check availability, resolve
// nightly prices, aggregate add-ons, persist under the capacity guard.
// Nothing is durable before the insert; a failure there means the caller
// retries from scratch.
func (s *Service) CreateBooking(ctx context.Context, tenantID int64, req CreateBookingRequest) (*domain.Booking, error) {
	stay, err := s.parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	room, err := s.loadActiveRoom(ctx, tenantID, req.RoomID)
	if err != nil {
		return nil, err
	}

	cnt, err := s.bookings.CountOverlapping(ctx, tenantID, room.ID, stay.CheckIn, stay.CheckOut, 0)
	if err != nil {
		return nil, err
	}
	if cnt >= int64(room.TotalUnits) {
		return nil, ErrNotAvailable
	}

	selections, err := s.resolveSelections(ctx, tenantID, req.AddOns)
	if err != nil {
		return nil, err
	}

	rates := s.ratesForStay(ctx, tenantID, room.ID, stay)
	quote := pricing.BuildQuote(room, rates, selections, stay)

	b := &domain.Booking{
		Reference:   uuid.NewString(),
		TenantID:    tenantID,
		RoomID:      room.ID,
		GuestName:   req.GuestName,
		GuestEmail:  req.GuestEmail,
		CheckIn:     stay.CheckIn,
		CheckOut:    stay.CheckOut,
		Status:      domain.BookingPending,
		BaseTotal:   quote.BaseTotal,
		AddOnsTotal: quote.AddOnsTotal,
		TotalAmount: quote.TotalAmount,
		Currency:    quote.Currency,
		NightCount:  quote.NightCount,
		Breakdown:   marshalBreakdown(quote.Nights),
		Notes:       req.Notes,
		AddOns:      addOnLinesToDomain(quote.AddOns),
	}

	if violations := validator.Validate(b); violations != nil {
		return nil, ErrValidation
	}

	if err := s.bookings.CreateWithCapacityGuard(ctx, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrCapacityExceeded):
			return nil, ErrCommitConflict
		case errors.Is(err, repository.ErrRoomMissing):
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	s.notifyRoomChanged(room.ID, stay)
	return b, nil
}

// RetryBooking re-runs pricing and the capacity check for a failed booking,
// excluding the booking itself from the conflict count. Nights are
// re-resolved against current rates; stored add-on lines keep their booked
// prices.
func (s *Service) RetryBooking(ctx context.Context, tenantID, bookingID int64) (*domain.Booking, error) {
	b, err := s.getBooking(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.Retryable() {
		return nil, ErrNotRetryable
	}

	room, err := s.loadActiveRoom(ctx, tenantID, b.RoomID)
	if err != nil {
		return nil, err
	}

	stay, err := pricing.NewStayRange(b.CheckIn, b.CheckOut)
	if err != nil {
		return nil, ErrValidation
	}

	cnt, err := s.bookings.CountOverlapping(ctx, tenantID, room.ID, stay.CheckIn, stay.CheckOut, b.ID)
	if err != nil {
		return nil, err
	}
	if cnt >= int64(room.TotalUnits) {
		return nil, ErrNotAvailable
	}

	selections := make([]pricing.AddOnSelection, 0, len(b.AddOns))
	for _, a := range b.AddOns {
		selections = append(selections, pricing.AddOnSelection{
			ID:       a.AddOnID,
			Name:     a.Name,
			Price:    a.Price,
			Quantity: a.Quantity,
		})
	}

	rates := s.ratesForStay(ctx, tenantID, room.ID, stay)
	quote := pricing.BuildQuote(room, rates, selections, stay)

	b.Status = domain.BookingPending
	b.BaseTotal = quote.BaseTotal
	b.AddOnsTotal = quote.AddOnsTotal
	b.TotalAmount = quote.TotalAmount
	b.NightCount = quote.NightCount
	b.Breakdown = marshalBreakdown(quote.Nights)

	if err := s.bookings.ReactivateWithCapacityGuard(ctx, b); err != nil {
		if errors.Is(err, repository.ErrCapacityExceeded) {
			return nil, ErrCommitConflict
		}
		return nil, err
	}

	s.notifyRoomChanged(room.ID, stay)
	return s.getBooking(ctx, tenantID, bookingID)
}

// UpdateAddOns re-derives totals after a guest edits add-ons. The booked
// base total stays frozen; only the add-on portion is recomputed, at
// current catalog prices.
func (s *Service) UpdateAddOns(ctx context.Context, tenantID, bookingID int64, req UpdateAddOnsRequest) (*domain.Booking, error) {
	b, err := s.getBooking(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, ErrInvalidStatusTransition
	}

	selections, err := s.resolveSelections(ctx, tenantID, req.AddOns)
	if err != nil {
		return nil, err
	}

	quote := pricing.ReviseAddOns(b.BaseTotal, b.Currency, b.NightCount, selections)
	if err := s.bookings.ReplaceAddOns(ctx, tenantID, b.ID, addOnLinesToDomain(quote.AddOns), quote.AddOnsTotal, quote.TotalAmount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.getBooking(ctx, tenantID, bookingID)
}

// UpdateStatus applies a staff lifecycle transition.
func (s *Service) UpdateStatus(ctx context.Context, tenantID, bookingID int64, newStatus string) (*domain.Booking, error) {
	b, err := s.getBooking(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}

	target := domain.BookingStatus(newStatus)
	if !transitionAllowed(b.Status, target) {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.bookings.UpdateStatus(ctx, tenantID, bookingID, target); err != nil {
		return nil, err
	}

	// A transition out of the blocking set frees inventory.
	if b.Status.Blocks() && !target.Blocks() {
		if stay, err := pricing.NewStayRange(b.CheckIn, b.CheckOut); err == nil {
			s.notifyRoomChanged(b.RoomID, stay)
		}
	}

	return s.getBooking(ctx, tenantID, bookingID)
}

// CancelBooking cancels from any non-terminal state, recording the reason.
func (s *Service) CancelBooking(ctx context.Context, tenantID, bookingID int64, reason string) (*domain.Booking, error) {
	b, err := s.getBooking(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.bookings.CancelWithReason(ctx, tenantID, bookingID, reason); err != nil {
		return nil, err
	}

	if b.Status.Blocks() {
		if stay, err := pricing.NewStayRange(b.CheckIn, b.CheckOut); err == nil {
			s.notifyRoomChanged(b.RoomID, stay)
		}
	}

	return s.getBooking(ctx, tenantID, bookingID)
}

func (s *Service) GetBooking(ctx context.Context, tenantID, bookingID int64) (*domain.Booking, error) {
	return s.getBooking(ctx, tenantID, bookingID)
}

func (s *Service) ListRoomBookings(ctx context.Context, tenantID, roomID int64, limit, offset int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookings.ListByRoom(ctx, tenantID, roomID, limit, offset)
}

func (s *Service) getBooking(ctx context.Context, tenantID, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, tenantID, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) notifyRoomChanged(roomID int64, stay pricing.StayRange) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyRoomChanged(
		roomID,
		stay.CheckIn.Format(pricing.DateLayout),
		stay.CheckOut.Format(pricing.DateLayout),
	)
}

func transitionAllowed(from, to domain.BookingStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func addOnLinesToDomain(lines []pricing.AddOnLine) []domain.BookingAddOn {
	out := make([]domain.BookingAddOn, 0, len(lines))
	for _, l := range lines {
		out = append(out, domain.BookingAddOn{
			AddOnID:  l.ID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: l.Quantity,
			Total:    l.Total,
		})
	}
	return out
}

func marshalBreakdown(nights []pricing.NightLine) string {
	data, err := json.Marshal(nights)
	if err != nil {
		return ""
	}
	return string(data)
}
