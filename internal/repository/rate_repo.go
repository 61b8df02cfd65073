package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"lodging/internal/domain"
)

// RateRepository persists seasonal rates through gorm and serves the
// hot-path window scan through sqlx, raw SQL against the same database.
type RateRepository struct {
	db  *gorm.DB
	sdb *sqlx.DB
}

func NewRateRepository(db *gorm.DB, sdb *sqlx.DB) *RateRepository {
	return &RateRepository{db: db, sdb: sdb}
}

type seasonalRateModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	TenantID      int64     `gorm:"column:tenant_id;index"`
	RoomID        int64     `gorm:"column:room_id;index"`
	Name          string    `gorm:"column:name"`
	StartDate     time.Time `gorm:"column:start_date"`
	EndDate       time.Time `gorm:"column:end_date"`
	PricePerNight float64   `gorm:"column:price_per_night"`
	Priority      int       `gorm:"column:priority"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (seasonalRateModel) TableName() string { return "seasonal_rates" }

type rateRow struct {
	ID            int64     `db:"id"`
	TenantID      int64     `db:"tenant_id"`
	RoomID        int64     `db:"room_id"`
	Name          string    `db:"name"`
	StartDate     time.Time `db:"start_date"`
	EndDate       time.Time `db:"end_date"`
	PricePerNight float64   `db:"price_per_night"`
	Priority      int       `db:"priority"`
}

func toDomainRate(m seasonalRateModel) *domain.SeasonalRate {
	return &domain.SeasonalRate{
		ID:            m.ID,
		TenantID:      m.TenantID,
		RoomID:        m.RoomID,
		Name:          m.Name,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		PricePerNight: m.PricePerNight,
		Priority:      m.Priority,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toRateModel(r *domain.SeasonalRate) seasonalRateModel {
	return seasonalRateModel{
		ID:            r.ID,
		TenantID:      r.TenantID,
		RoomID:        r.RoomID,
		Name:          r.Name,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		PricePerNight: r.PricePerNight,
		Priority:      r.Priority,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r *RateRepository) Create(ctx context.Context, rate *domain.SeasonalRate) error {
	m := toRateModel(rate)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*rate = *toDomainRate(m)
	return nil
}

func (r *RateRepository) Update(ctx context.Context, rate *domain.SeasonalRate) error {
	m := toRateModel(rate)
	res := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", rate.ID, rate.TenantID).
		Save(&m)
	return res.Error
}

func (r *RateRepository) Delete(ctx context.Context, tenantID, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&seasonalRateModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RateRepository) GetByID(ctx context.Context, tenantID, id int64) (*domain.SeasonalRate, error) {
	var m seasonalRateModel
	tx := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRate(m), nil
}

func (r *RateRepository) ListByRoom(ctx context.Context, tenantID, roomID int64) ([]domain.SeasonalRate, error) {
	var models []seasonalRateModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND room_id = ?", tenantID, roomID).
		Order("start_date, priority DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.SeasonalRate, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainRate(m))
	}
	return out, nil
}

// ListForStay fetches the room's rates whose closed window intersects the
// half-open stay [checkIn, checkOut). Narrowing here is an optimization
// only; the resolver re-checks containment per night.
func (r *RateRepository) ListForStay(ctx context.Context, tenantID, roomID int64, checkIn, checkOut time.Time) ([]domain.SeasonalRate, error) {
	query := r.sdb.Rebind(`
SELECT id, tenant_id, room_id, name, start_date, end_date, price_per_night, priority
FROM seasonal_rates
WHERE tenant_id = ?
  AND room_id = ?
  AND start_date < ?
  AND end_date >= ?
ORDER BY priority DESC, id`)

	var rows []rateRow
	if err := r.sdb.SelectContext(ctx, &rows, query, tenantID, roomID, checkOut, checkIn); err != nil {
		return nil, err
	}

	out := make([]domain.SeasonalRate, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.SeasonalRate{
			ID:            row.ID,
			TenantID:      row.TenantID,
			RoomID:        row.RoomID,
			Name:          row.Name,
			StartDate:     row.StartDate,
			EndDate:       row.EndDate,
			PricePerNight: row.PricePerNight,
			Priority:      row.Priority,
		})
	}
	return out, nil
}
