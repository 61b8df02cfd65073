package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lodging/internal/domain"
	"lodging/internal/pricing"
	"lodging/internal/repository"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidWindow = errors.New("invalid rate window")
	ErrValidation    = errors.New("validation error")
)

type Service struct {
	tenants *repository.TenantRepository
	rooms   *repository.RoomRepository
	rates   *repository.RateRepository
	addOns  *repository.AddOnRepository
}

func NewService(
	tenants *repository.TenantRepository,
	rooms *repository.RoomRepository,
	rates *repository.RateRepository,
	addOns *repository.AddOnRepository,
) *Service {
	return &Service{tenants, rooms, rates, addOns}
}

/* ---------- DIRECTORY (public) ---------- */

func (s *Service) ListRoomsBySlug(ctx context.Context, slug string, limit, offset int) ([]domain.Room, int64, error) {
	tenant, err := s.tenants.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.rooms.ListByTenant(ctx, tenant.ID, true, limit, offset)
}

func (s *Service) GetRoomBySlug(ctx context.Context, slug string, roomID int64) (*domain.Room, error) {
	tenant, err := s.tenants.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, tenant.ID, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !room.IsActive {
		return nil, ErrNotFound
	}
	return room, nil
}

/* ---------- ROOMS (staff) ---------- */

func (s *Service) CreateRoom(ctx context.Context, tenantID int64, req CreateRoomRequest) (*domain.Room, error) {
	currency := req.Currency
	if currency == "" {
		tenant, err := s.tenants.GetByID(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		currency = tenant.Currency
	}
	if len(currency) != 3 {
		return nil, ErrValidation
	}

	room := &domain.Room{
		TenantID:          tenantID,
		Name:              req.Name,
		Description:       req.Description,
		BasePricePerNight: req.BasePricePerNight,
		Currency:          currency,
		TotalUnits:        req.TotalUnits,
		MaxGuests:         req.MaxGuests,
		IsActive:          true,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) UpdateRoom(ctx context.Context, tenantID, roomID int64, req UpdateRoomRequest) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, tenantID, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Description != nil {
		room.Description = *req.Description
	}
	if req.BasePricePerNight != nil && *req.BasePricePerNight >= 0 {
		room.BasePricePerNight = *req.BasePricePerNight
	}
	if req.TotalUnits != nil && *req.TotalUnits > 0 {
		room.TotalUnits = *req.TotalUnits
	}
	if req.MaxGuests != nil && *req.MaxGuests > 0 {
		room.MaxGuests = *req.MaxGuests
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) ListRooms(ctx context.Context, tenantID int64, limit, offset int) ([]domain.Room, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.rooms.ListByTenant(ctx, tenantID, false, limit, offset)
}

func (s *Service) DeactivateRoom(ctx context.Context, tenantID, roomID int64) error {
	err := s.rooms.SetActive(ctx, tenantID, roomID, false)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

/* ---------- SEASONAL RATES (staff) ---------- */

func (s *Service) ListRates(ctx context.Context, tenantID, roomID int64) ([]domain.SeasonalRate, error) {
	if _, err := s.rooms.GetByID(ctx, tenantID, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.rates.ListByRoom(ctx, tenantID, roomID)
}

func (s *Service) CreateRate(ctx context.Context, tenantID int64, req CreateRateRequest) (*domain.SeasonalRate, error) {
	if _, err := s.rooms.GetByID(ctx, tenantID, req.RoomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	start, err := pricing.ParseDate(req.StartDate)
	if err != nil {
		return nil, ErrInvalidWindow
	}
	end, err := pricing.ParseDate(req.EndDate)
	if err != nil {
		return nil, ErrInvalidWindow
	}
	// Inclusive window: a single-day rate has start == end.
	if end.Before(start) {
		return nil, ErrInvalidWindow
	}

	rate := &domain.SeasonalRate{
		TenantID:      tenantID,
		RoomID:        req.RoomID,
		Name:          req.Name,
		StartDate:     start,
		EndDate:       end,
		PricePerNight: req.PricePerNight,
		Priority:      req.Priority,
	}
	if err := s.rates.Create(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

func (s *Service) UpdateRate(ctx context.Context, tenantID, rateID int64, req UpdateRateRequest) (*domain.SeasonalRate, error) {
	rate, err := s.rates.GetByID(ctx, tenantID, rateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		rate.Name = *req.Name
	}
	if req.StartDate != nil {
		start, err := pricing.ParseDate(*req.StartDate)
		if err != nil {
			return nil, ErrInvalidWindow
		}
		rate.StartDate = start
	}
	if req.EndDate != nil {
		end, err := pricing.ParseDate(*req.EndDate)
		if err != nil {
			return nil, ErrInvalidWindow
		}
		rate.EndDate = end
	}
	if rate.EndDate.Before(rate.StartDate) {
		return nil, ErrInvalidWindow
	}
	if req.PricePerNight != nil && *req.PricePerNight >= 0 {
		rate.PricePerNight = *req.PricePerNight
	}
	if req.Priority != nil {
		rate.Priority = *req.Priority
	}

	if err := s.rates.Update(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

func (s *Service) DeleteRate(ctx context.Context, tenantID, rateID int64) error {
	err := s.rates.Delete(ctx, tenantID, rateID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

/* ---------- ADD-ONS (staff) ---------- */

func (s *Service) ListAddOns(ctx context.Context, tenantID int64) ([]domain.AddOn, error) {
	return s.addOns.ListActive(ctx, tenantID)
}

func (s *Service) CreateAddOn(ctx context.Context, tenantID int64, req CreateAddOnRequest) (*domain.AddOn, error) {
	addOn := &domain.AddOn{
		TenantID: tenantID,
		Name:     req.Name,
		Price:    req.Price,
		IsActive: true,
	}
	if err := s.addOns.Create(ctx, addOn); err != nil {
		return nil, err
	}
	return addOn, nil
}

func (s *Service) UpdateAddOn(ctx context.Context, tenantID, addOnID int64, req UpdateAddOnRequest) (*domain.AddOn, error) {
	addOn, err := s.addOns.GetByID(ctx, tenantID, addOnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		addOn.Name = *req.Name
	}
	if req.Price != nil && *req.Price >= 0 {
		addOn.Price = *req.Price
	}
	if req.IsActive != nil {
		addOn.IsActive = *req.IsActive
	}

	if err := s.addOns.Update(ctx, addOn); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return addOn, nil
}
