package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lodging/internal/domain"
)

var (
	// ErrCapacityExceeded is returned when a booking insert would push a
	// room past its unit capacity, detected either by the serialized
	// recount or by the Postgres capacity constraint at commit time.
	ErrCapacityExceeded = errors.New("room capacity exceeded")

	ErrRoomMissing = errors.New("room not found")
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	Reference          string     `gorm:"column:reference;uniqueIndex"`
	TenantID           int64      `gorm:"column:tenant_id;index"`
	RoomID             int64      `gorm:"column:room_id;index"`
	GuestName          string     `gorm:"column:guest_name"`
	GuestEmail         string     `gorm:"column:guest_email"`
	CheckIn            time.Time  `gorm:"column:check_in"`
	CheckOut           time.Time  `gorm:"column:check_out"`
	Status             string     `gorm:"column:status;index"`
	BaseTotal          float64    `gorm:"column:base_total"`
	AddOnsTotal        float64    `gorm:"column:addons_total"`
	TotalAmount        float64    `gorm:"column:total_amount"`
	Currency           string     `gorm:"column:currency"`
	NightCount         int        `gorm:"column:night_count"`
	Breakdown          *string    `gorm:"column:breakdown"`
	Notes              *string    `gorm:"column:notes"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

type bookingAddOnModel struct {
	ID        int64   `gorm:"column:id;primaryKey"`
	BookingID int64   `gorm:"column:booking_id;index"`
	AddOnID   int64   `gorm:"column:addon_id"`
	Name      string  `gorm:"column:name"`
	Price     float64 `gorm:"column:price"`
	Quantity  int     `gorm:"column:quantity"`
	Total     float64 `gorm:"column:total"`
}

func (bookingAddOnModel) TableName() string { return "booking_addons" }

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func toDomainBooking(m bookingModel, addOns []bookingAddOnModel) *domain.Booking {
	b := &domain.Booking{
		ID:                 m.ID,
		Reference:          m.Reference,
		TenantID:           m.TenantID,
		RoomID:             m.RoomID,
		GuestName:          m.GuestName,
		GuestEmail:         m.GuestEmail,
		CheckIn:            m.CheckIn,
		CheckOut:           m.CheckOut,
		Status:             domain.BookingStatus(m.Status),
		BaseTotal:          m.BaseTotal,
		AddOnsTotal:        m.AddOnsTotal,
		TotalAmount:        m.TotalAmount,
		Currency:           m.Currency,
		NightCount:         m.NightCount,
		Breakdown:          strVal(m.Breakdown),
		Notes:              strVal(m.Notes),
		CancellationReason: strVal(m.CancellationReason),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		CancelledAt:        m.CancelledAt,
	}
	for _, a := range addOns {
		b.AddOns = append(b.AddOns, domain.BookingAddOn{
			ID:        a.ID,
			BookingID: a.BookingID,
			AddOnID:   a.AddOnID,
			Name:      a.Name,
			Price:     a.Price,
			Quantity:  a.Quantity,
			Total:     a.Total,
		})
	}
	return b
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:                 b.ID,
		Reference:          b.Reference,
		TenantID:           b.TenantID,
		RoomID:             b.RoomID,
		GuestName:          b.GuestName,
		GuestEmail:         b.GuestEmail,
		CheckIn:            b.CheckIn,
		CheckOut:           b.CheckOut,
		Status:             string(b.Status),
		BaseTotal:          b.BaseTotal,
		AddOnsTotal:        b.AddOnsTotal,
		TotalAmount:        b.TotalAmount,
		Currency:           b.Currency,
		NightCount:         b.NightCount,
		Breakdown:          strPtr(b.Breakdown),
		Notes:              strPtr(b.Notes),
		CancellationReason: strPtr(b.CancellationReason),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		CancelledAt:        b.CancelledAt,
	}
}

func toAddOnModels(bookingID int64, addOns []domain.BookingAddOn) []bookingAddOnModel {
	out := make([]bookingAddOnModel, 0, len(addOns))
	for _, a := range addOns {
		out = append(out, bookingAddOnModel{
			BookingID: bookingID,
			AddOnID:   a.AddOnID,
			Name:      a.Name,
			Price:     a.Price,
			Quantity:  a.Quantity,
			Total:     a.Total,
		})
	}
	return out
}

func blockingStatusStrings() []string {
	out := make([]string, 0, len(domain.BlockingStatuses))
	for _, s := range domain.BlockingStatuses {
		out = append(out, string(s))
	}
	return out
}

// CountOverlapping counts blocking bookings for the room whose half-open
// [check_in, check_out) intersects the given range. excludeID skips a
// booking being re-checked against itself (retry/modify flows); pass 0 to
// exclude nothing.
func (r *BookingRepository) CountOverlapping(ctx context.Context, tenantID, roomID int64, checkIn, checkOut time.Time, excludeID int64) (int64, error) {
	return countOverlappingTx(r.db.WithContext(ctx), tenantID, roomID, checkIn, checkOut, excludeID)
}

func countOverlappingTx(tx *gorm.DB, tenantID, roomID int64, checkIn, checkOut time.Time, excludeID int64) (int64, error) {
	var cnt int64
	q := tx.Model(&bookingModel{}).
		Where("tenant_id = ? AND room_id = ?", tenantID, roomID).
		Where("status IN ?", blockingStatusStrings()).
		Where("check_in < ? AND ? < check_out", checkOut, checkIn)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

// CreateWithCapacityGuard inserts the booking inside one transaction that
// locks the room row and recounts overlapping blocking bookings against the
// room's unit capacity. Two concurrent creates for the same room serialize
// on the lock, so both cannot pass the recount. On Postgres a constraint
// violation at insert is additionally translated to ErrCapacityExceeded.
func (r *BookingRepository) CreateWithCapacityGuard(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	addOns := b.AddOns

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		totalUnits, err := lockRoomUnits(tx, b.TenantID, b.RoomID)
		if err != nil {
			return err
		}

		cnt, err := countOverlappingTx(tx, b.TenantID, b.RoomID, m.CheckIn, m.CheckOut, 0)
		if err != nil {
			return err
		}
		if cnt >= int64(totalUnits) {
			return ErrCapacityExceeded
		}

		if err := tx.Create(&m).Error; err != nil {
			return translateConstraint(err)
		}
		if len(addOns) > 0 {
			models := toAddOnModels(m.ID, addOns)
			if err := tx.Create(&models).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	fresh, err := r.GetByID(ctx, b.TenantID, m.ID)
	if err != nil {
		return err
	}
	*b = *fresh
	return nil
}

// ReactivateWithCapacityGuard re-arms a failed booking (retry flow) under
// the same room lock, excluding the booking itself from the overlap count.
func (r *BookingRepository) ReactivateWithCapacityGuard(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		totalUnits, err := lockRoomUnits(tx, b.TenantID, b.RoomID)
		if err != nil {
			return err
		}

		cnt, err := countOverlappingTx(tx, b.TenantID, b.RoomID, m.CheckIn, m.CheckOut, b.ID)
		if err != nil {
			return err
		}
		if cnt >= int64(totalUnits) {
			return ErrCapacityExceeded
		}

		updates := map[string]any{
			"status":       m.Status,
			"base_total":   m.BaseTotal,
			"addons_total": m.AddOnsTotal,
			"total_amount": m.TotalAmount,
			"night_count":  m.NightCount,
			"breakdown":    m.Breakdown,
		}
		if err := tx.Model(&bookingModel{}).
			Where("id = ? AND tenant_id = ?", b.ID, b.TenantID).
			Updates(updates).Error; err != nil {
			return translateConstraint(err)
		}
		return nil
	})
}

// lockRoomUnits locks the room row for the duration of the transaction and
// returns its unit capacity. SQLite has no row locks; its single-writer
// model serializes the recount instead.
func lockRoomUnits(tx *gorm.DB, tenantID, roomID int64) (int, error) {
	q := tx.Table("rooms").
		Select("total_units").
		Where("id = ? AND tenant_id = ?", roomID, tenantID)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var totalUnits int
	if err := q.Scan(&totalUnits).Error; err != nil {
		return 0, err
	}
	if totalUnits == 0 {
		return 0, ErrRoomMissing
	}
	return totalUnits, nil
}

func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23P01: exclusion_violation from the bookings capacity constraint,
		// 23505: unique_violation on single-unit rooms.
		if pgErr.Code == "23P01" || pgErr.Code == "23505" {
			return ErrCapacityExceeded
		}
	}
	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}

	var addOns []bookingAddOnModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", m.ID).
		Order("id").
		Find(&addOns).Error; err != nil {
		return nil, err
	}
	return toDomainBooking(m, addOns), nil
}

func (r *BookingRepository) GetByReference(ctx context.Context, tenantID int64, reference string) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).
		Where("reference = ? AND tenant_id = ?", reference, tenantID).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}

	var addOns []bookingAddOnModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", m.ID).
		Order("id").
		Find(&addOns).Error; err != nil {
		return nil, err
	}
	return toDomainBooking(m, addOns), nil
}

func (r *BookingRepository) ListByRoom(ctx context.Context, tenantID, roomID int64, limit, offset int) ([]domain.Booking, error) {
	var models []bookingModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND room_id = ?", tenantID, roomID).
		Order("check_in DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m, nil))
	}
	return out, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, tenantID, id int64, status domain.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("status", string(status)).Error
}

func (r *BookingRepository) CancelWithReason(ctx context.Context, tenantID, id int64, reason string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(map[string]any{
			"status":              string(domain.BookingCancelled),
			"cancellation_reason": reason,
			"cancelled_at":        &now,
		}).Error
}

// ReplaceAddOns swaps the booking's add-on lines and totals in one
// transaction. The base total is written as-is; callers freeze it at its
// booked value.
func (r *BookingRepository) ReplaceAddOns(ctx context.Context, tenantID, id int64, addOns []domain.BookingAddOn, addOnsTotal, totalAmount float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&bookingModel{}).
			Where("id = ? AND tenant_id = ?", id, tenantID).
			Updates(map[string]any{
				"addons_total": addOnsTotal,
				"total_amount": totalAmount,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("booking_id = ?", id).
			Delete(&bookingAddOnModel{}).Error; err != nil {
			return err
		}
		if len(addOns) > 0 {
			models := toAddOnModels(id, addOns)
			if err := tx.Create(&models).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
