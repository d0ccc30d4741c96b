package repository

import (
	"context"

	"stock-watchlist/internal/model"
	"stock-watchlist/pkg/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GetAlertHistoryParam struct {
	StockIDs []uint
	Limit    int
}

// AlertHistoryRepository persists the immutable per-cycle alert records.
// MarkNotified is the only permitted mutation: it back-fills the delivery
// outcome of the cycle that created the rows.
type AlertHistoryRepository interface {
	Create(ctx context.Context, history *model.AlertHistory, opts ...utils.DBOption) error
	Get(ctx context.Context, param GetAlertHistoryParam) ([]model.AlertHistory, error)
	GetLatestByStockIDs(ctx context.Context, stockIDs []uint) (map[uint]model.AlertHistory, error)
	MarkNotified(ctx context.Context, ids []uint, notified bool, channels datatypes.JSON, opts ...utils.DBOption) error
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
}

type alertHistoryRepository struct {
	db *gorm.DB
}

func NewAlertHistoryRepository(db *gorm.DB) AlertHistoryRepository {
	return &alertHistoryRepository{db: db}
}

func (r *alertHistoryRepository) Create(ctx context.Context, history *model.AlertHistory, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(history).Error
}

func (r *alertHistoryRepository) Get(ctx context.Context, param GetAlertHistoryParam) ([]model.AlertHistory, error) {
	var histories []model.AlertHistory

	query := r.db.WithContext(ctx).Order("triggered_at DESC")
	if len(param.StockIDs) > 0 {
		query = query.Where("stock_id IN (?)", param.StockIDs)
	}
	if param.Limit > 0 {
		query = query.Limit(param.Limit)
	}

	if err := query.Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}

// GetLatestByStockIDs returns the most recent alert per stock in one query.
func (r *alertHistoryRepository) GetLatestByStockIDs(ctx context.Context, stockIDs []uint) (map[uint]model.AlertHistory, error) {
	latest := make(map[uint]model.AlertHistory, len(stockIDs))
	if len(stockIDs) == 0 {
		return latest, nil
	}

	var histories []model.AlertHistory
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (stock_id) *
		     FROM alert_histories
		     WHERE stock_id IN (?)
		     ORDER BY stock_id, triggered_at DESC`, stockIDs).
		Scan(&histories).Error
	if err != nil {
		return nil, err
	}

	for _, h := range histories {
		latest[h.StockID] = h
	}
	return latest, nil
}

func (r *alertHistoryRepository) MarkNotified(ctx context.Context, ids []uint, notified bool, channels datatypes.JSON, opts ...utils.DBOption) error {
	if len(ids) == 0 {
		return nil
	}
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.AlertHistory{}).
		Where("id IN (?)", ids).
		Updates(map[string]interface{}{
			"notified": notified,
			"channels": channels,
		}).Error
}

func (r *alertHistoryRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Delete(&model.AlertHistory{}, id).Error
}
