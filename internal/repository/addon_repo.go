package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"lodging/internal/domain"
)

type AddOnRepository struct {
	db *gorm.DB
}

func NewAddOnRepository(db *gorm.DB) *AddOnRepository {
	return &AddOnRepository{db: db}
}

type addOnModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	TenantID  int64     `gorm:"column:tenant_id;index"`
	Name      string    `gorm:"column:name"`
	Price     float64   `gorm:"column:price"`
	IsActive  bool      `gorm:"column:is_active"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (addOnModel) TableName() string { return "addons" }

func toDomainAddOn(m addOnModel) *domain.AddOn {
	return &domain.AddOn{
		ID:        m.ID,
		TenantID:  m.TenantID,
		Name:      m.Name,
		Price:     m.Price,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *AddOnRepository) Create(ctx context.Context, a *domain.AddOn) error {
	m := addOnModel{
		TenantID: a.TenantID,
		Name:     a.Name,
		Price:    a.Price,
		IsActive: a.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*a = *toDomainAddOn(m)
	return nil
}

func (r *AddOnRepository) Update(ctx context.Context, a *domain.AddOn) error {
	res := r.db.WithContext(ctx).
		Model(&addOnModel{}).
		Where("id = ? AND tenant_id = ?", a.ID, a.TenantID).
		Updates(map[string]any{
			"name":      a.Name,
			"price":     a.Price,
			"is_active": a.IsActive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AddOnRepository) GetByID(ctx context.Context, tenantID, id int64) (*domain.AddOn, error) {
	var m addOnModel
	tx := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainAddOn(m), nil
}

func (r *AddOnRepository) ListActive(ctx context.Context, tenantID int64) ([]domain.AddOn, error) {
	var models []addOnModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("name").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.AddOn, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainAddOn(m))
	}
	return out, nil
}

// GetByIDs resolves add-on selections against the tenant's catalog. Missing
// or foreign-tenant IDs are simply absent from the result; the caller
// decides whether that is an error.
func (r *AddOnRepository) GetByIDs(ctx context.Context, tenantID int64, ids []int64) ([]domain.AddOn, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []addOnModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ? AND is_active = ?", tenantID, ids, true).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.AddOn, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainAddOn(m))
	}
	return out, nil
}
