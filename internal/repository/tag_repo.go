package repository

import (
	"context"
	"errors"

	"stock-watchlist/internal/model"
	"stock-watchlist/pkg/utils"

	"gorm.io/gorm"
)

type TagRepository interface {
	GetAll(ctx context.Context) ([]model.Tag, error)
	GetByName(ctx context.Context, name string) (*model.Tag, error)
	GetOrCreate(ctx context.Context, name string, opts ...utils.DBOption) (*model.Tag, error)
	Create(ctx context.Context, tag *model.Tag, opts ...utils.DBOption) error
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
	ReplaceStockTags(ctx context.Context, stock *model.Stock, tags []model.Tag, opts ...utils.DBOption) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetAll(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetOrCreate(ctx context.Context, name string, opts ...utils.DBOption) (*model.Tag, error) {
	var tag model.Tag
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where(model.Tag{Name: name}).
		FirstOrCreate(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) Create(ctx context.Context, tag *model.Tag, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(tag).Error
}

func (r *tagRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Select("Stocks").
		Delete(&model.Tag{ID: id}).Error
}

func (r *tagRepository) ReplaceStockTags(ctx context.Context, stock *model.Stock, tags []model.Tag, opts ...utils.DBOption) error {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return db.Model(stock).Association("Tags").Replace(tags)
}
