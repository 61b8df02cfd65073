package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"lodging/internal/domain"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type roomModel struct {
	ID                int64     `gorm:"column:id;primaryKey"`
	TenantID          int64     `gorm:"column:tenant_id;index"`
	Name              string    `gorm:"column:name"`
	Description       *string   `gorm:"column:description"`
	BasePricePerNight float64   `gorm:"column:base_price_per_night"`
	Currency          string    `gorm:"column:currency"`
	TotalUnits        int       `gorm:"column:total_units"`
	MaxGuests         int       `gorm:"column:max_guests"`
	IsActive          bool      `gorm:"column:is_active"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

func toDomainRoom(m roomModel) *domain.Room {
	return &domain.Room{
		ID:                m.ID,
		TenantID:          m.TenantID,
		Name:              m.Name,
		Description:       strVal(m.Description),
		BasePricePerNight: m.BasePricePerNight,
		Currency:          m.Currency,
		TotalUnits:        m.TotalUnits,
		MaxGuests:         m.MaxGuests,
		IsActive:          m.IsActive,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toRoomModel(r *domain.Room) roomModel {
	return roomModel{
		ID:                r.ID,
		TenantID:          r.TenantID,
		Name:              r.Name,
		Description:       strPtr(r.Description),
		BasePricePerNight: r.BasePricePerNight,
		Currency:          r.Currency,
		TotalUnits:        r.TotalUnits,
		MaxGuests:         r.MaxGuests,
		IsActive:          r.IsActive,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	m := toRoomModel(room)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*room = *toDomainRoom(m)
	return nil
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	m := toRoomModel(room)
	return r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", room.ID, room.TenantID).
		Save(&m).Error
}

func (r *RoomRepository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Room, error) {
	var m roomModel
	tx := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRoom(m), nil
}

// ListByTenant returns the tenant's rooms, newest first. onlyActive filters
// to the guest-facing directory view.
func (r *RoomRepository) ListByTenant(ctx context.Context, tenantID int64, onlyActive bool, limit, offset int) ([]domain.Room, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("tenant_id = ?", tenantID)
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []roomModel
	if err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Room, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainRoom(m))
	}
	return out, total, nil
}

// SetActive soft-(de)activates the room; rooms are never hard-deleted in
// normal operation.
func (r *RoomRepository) SetActive(ctx context.Context, tenantID, id int64, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
