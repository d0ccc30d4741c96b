package repository

import (
	"context"
	"errors"

	"stock-watchlist/internal/model"
	"stock-watchlist/pkg/utils"

	"gorm.io/gorm"
)

type GetTargetsParam struct {
	IDs      []uint
	StockIDs []uint
	IsActive *bool
}

type TargetRepository interface {
	Get(ctx context.Context, param GetTargetsParam, opts ...utils.DBOption) ([]model.Target, error)
	GetByID(ctx context.Context, id uint) (*model.Target, error)
	Create(ctx context.Context, target *model.Target, opts ...utils.DBOption) error
	Update(ctx context.Context, target *model.Target, opts ...utils.DBOption) error
	SetActive(ctx context.Context, id uint, active bool, opts ...utils.DBOption) error
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
}

type targetRepository struct {
	db *gorm.DB
}

func NewTargetRepository(db *gorm.DB) TargetRepository {
	return &targetRepository{db: db}
}

func (r *targetRepository) Get(ctx context.Context, param GetTargetsParam, opts ...utils.DBOption) ([]model.Target, error) {
	var targets []model.Target

	query := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	if len(param.IDs) > 0 {
		query = query.Where("id IN (?)", param.IDs)
	}
	if len(param.StockIDs) > 0 {
		query = query.Where("stock_id IN (?)", param.StockIDs)
	}
	if param.IsActive != nil {
		query = query.Where("is_active = ?", *param.IsActive)
	}

	if err := query.Order("created_at ASC").Find(&targets).Error; err != nil {
		return nil, err
	}
	return targets, nil
}

func (r *targetRepository) GetByID(ctx context.Context, id uint) (*model.Target, error) {
	var target model.Target
	err := r.db.WithContext(ctx).First(&target, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &target, nil
}

func (r *targetRepository) Create(ctx context.Context, target *model.Target, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(target).Error
}

func (r *targetRepository) Update(ctx context.Context, target *model.Target, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(target).Error
}

func (r *targetRepository) SetActive(ctx context.Context, id uint, active bool, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.Target{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *targetRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Delete(&model.Target{}, id).Error
}
