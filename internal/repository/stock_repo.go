package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stock-watchlist/internal/model"
	"stock-watchlist/pkg/utils"

	"gorm.io/gorm"
)

type GetStocksParam struct {
	IDs     []uint
	Symbols []string
	Tag     string
	Search  string
}

type StockRepository interface {
	Get(ctx context.Context, param GetStocksParam, opts ...utils.DBOption) ([]model.Stock, error)
	GetBySymbol(ctx context.Context, symbol string, opts ...utils.DBOption) (*model.Stock, error)
	GetAllWithActiveTargets(ctx context.Context) ([]model.Stock, error)
	Create(ctx context.Context, stock *model.Stock, opts ...utils.DBOption) error
	Update(ctx context.Context, stock *model.Stock, opts ...utils.DBOption) error
	Delete(ctx context.Context, id uint, opts ...utils.DBOption) error
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Get(ctx context.Context, param GetStocksParam, opts ...utils.DBOption) ([]model.Stock, error) {
	var stocks []model.Stock

	query := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	qFilter := []string{}
	qFilterParam := []interface{}{}

	if len(param.IDs) > 0 {
		qFilter = append(qFilter, "stocks.id IN (?)")
		qFilterParam = append(qFilterParam, param.IDs)
	}

	if len(param.Symbols) > 0 {
		symbols := make([]string, 0, len(param.Symbols))
		for _, s := range param.Symbols {
			symbols = append(symbols, utils.NormalizeSymbol(s))
		}
		qFilter = append(qFilter, "stocks.symbol IN (?)")
		qFilterParam = append(qFilterParam, symbols)
	}

	if param.Search != "" {
		qFilter = append(qFilter, "(stocks.symbol ILIKE ? OR stocks.company_name ILIKE ?)")
		pattern := "%" + param.Search + "%"
		qFilterParam = append(qFilterParam, pattern, pattern)
	}

	if param.Tag != "" {
		query = query.
			Joins("JOIN stock_tags ON stock_tags.stock_id = stocks.id").
			Joins("JOIN tags ON tags.id = stock_tags.tag_id")
		qFilter = append(qFilter, "tags.name = ?")
		qFilterParam = append(qFilterParam, param.Tag)
	}

	if len(qFilter) > 0 {
		query = query.Where(strings.Join(qFilter, " AND "), qFilterParam...)
	}

	if err := query.Order("stocks.symbol ASC").Find(&stocks).Error; err != nil {
		return nil, err
	}

	return stocks, nil
}

func (r *stockRepository) GetBySymbol(ctx context.Context, symbol string, opts ...utils.DBOption) (*model.Stock, error) {
	var stock model.Stock
	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("symbol = ?", utils.NormalizeSymbol(symbol)).
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stock, nil
}

// GetAllWithActiveTargets loads the whole watchlist with its active targets in
// two queries, never one per stock.
func (r *stockRepository) GetAllWithActiveTargets(ctx context.Context) ([]model.Stock, error) {
	var stocks []model.Stock
	err := r.db.WithContext(ctx).
		Preload("Targets", "is_active = ?", true).
		Order("symbol ASC").
		Find(&stocks).Error
	if err != nil {
		return nil, err
	}
	return stocks, nil
}

func (r *stockRepository) Create(ctx context.Context, stock *model.Stock, opts ...utils.DBOption) error {
	stock.Symbol = utils.NormalizeSymbol(stock.Symbol)
	if stock.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Create(stock).Error
}

func (r *stockRepository) Update(ctx context.Context, stock *model.Stock, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).Updates(stock).Error
}

func (r *stockRepository) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Select("Targets", "Notes", "Holding").
		Delete(&model.Stock{ID: id}).Error
}
