package repository

import (
	"context"
	"errors"

	"stock-watchlist/internal/model"
	"stock-watchlist/pkg/utils"

	"gorm.io/gorm"
)

type NoteRepository interface {
	GetByStockID(ctx context.Context, stockID uint) ([]model.Note, error)
	GetByID(ctx context.Context, id uint) (*model.Note, error)
	CountByStockIDs(ctx context.Context, stockIDs []uint) (map[uint]int64, error)
	Create(ctx context.Context, note *model.Note, opts ...utils.DBOption) error
	Update(ctx context.Context, note *model.Note, opts ...utils.DBOption) error
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
}

type noteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) GetByStockID(ctx context.Context, stockID uint) ([]model.Note, error) {
	var notes []model.Note
	err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepository) GetByID(ctx context.Context, id uint) (*model.Note, error) {
	var note model.Note
	err := r.db.WithContext(ctx).First(&note, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &note, nil
}

// CountByStockIDs returns note counts for many stocks in one grouped query.
func (r *noteRepository) CountByStockIDs(ctx context.Context, stockIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(stockIDs))
	if len(stockIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		StockID uint
		Total   int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Note{}).
		Select("stock_id, COUNT(*) AS total").
		Where("stock_id IN (?)", stockIDs).
		Group("stock_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.StockID] = row.Total
	}
	return counts, nil
}

func (r *noteRepository) Create(ctx context.Context, note *model.Note, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(note).Error
}

func (r *noteRepository) Update(ctx context.Context, note *model.Note, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(note).Error
}

func (r *noteRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Delete(&model.Note{}, id).Error
}
