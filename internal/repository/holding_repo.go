package repository

import (
	"context"
	"errors"

	"stock-watchlist/internal/model"
	"stock-watchlist/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HoldingRepository interface {
	GetAll(ctx context.Context) ([]model.Holding, error)
	GetByStockID(ctx context.Context, stockID uint) (*model.Holding, error)
	Upsert(ctx context.Context, holding *model.Holding, opts ...utils.DBOption) error
	Delete(ctx context.Context, stockID uint, opts ...utils.DBOption) error
}

type holdingRepository struct {
	db *gorm.DB
}

func NewHoldingRepository(db *gorm.DB) HoldingRepository {
	return &holdingRepository{db: db}
}

func (r *holdingRepository) GetAll(ctx context.Context) ([]model.Holding, error) {
	var holdings []model.Holding
	if err := r.db.WithContext(ctx).Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

func (r *holdingRepository) GetByStockID(ctx context.Context, stockID uint) (*model.Holding, error) {
	var holding model.Holding
	err := r.db.WithContext(ctx).Where("stock_id = ?", stockID).First(&holding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &holding, nil
}

// Upsert writes the single holding row for a stock, overwriting shares and
// average cost if one already exists.
func (r *holdingRepository) Upsert(ctx context.Context, holding *model.Holding, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stock_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"shares", "average_cost", "updated_at"}),
		}).
		Create(holding).Error
}

func (r *holdingRepository) Delete(ctx context.Context, stockID uint, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("stock_id = ?", stockID).
		Delete(&model.Holding{}).Error
}
