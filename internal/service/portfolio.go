package service

import (
	"context"

	"stock-watchlist/internal/dto"
	"stock-watchlist/internal/model"
	"stock-watchlist/internal/repository"
	"stock-watchlist/pkg/logger"
	"stock-watchlist/pkg/utils"
)

// PortfolioService tracks owned positions and values them against live
// prices. Valuation is best effort: a symbol whose price cannot be fetched
// still appears in the summary, just without market value.
type PortfolioService interface {
	GetPortfolio(ctx context.Context) (*dto.PortfolioSummary, error)
	SetHolding(ctx context.Context, symbol string, req dto.HoldingRequest) (*model.Holding, error)
	DeleteHolding(ctx context.Context, symbol string) error
}

type portfolioService struct {
	log    *logger.Logger
	repo   *repository.Repository
	quotes QuoteService
}

func NewPortfolioService(log *logger.Logger, repo *repository.Repository, quotes QuoteService) PortfolioService {
	return &portfolioService{log: log, repo: repo, quotes: quotes}
}

func (s *portfolioService) GetPortfolio(ctx context.Context) (*dto.PortfolioSummary, error) {
	holdings, err := s.repo.HoldingRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &dto.PortfolioSummary{Positions: []dto.PortfolioPosition{}}
	if len(holdings) == 0 {
		return summary, nil
	}

	stockIDs := make([]uint, 0, len(holdings))
	for _, holding := range holdings {
		stockIDs = append(stockIDs, holding.StockID)
	}
	stocks, err := s.repo.StockRepo.Get(ctx, repository.GetStocksParam{IDs: stockIDs})
	if err != nil {
		return nil, err
	}

	stockByID := make(map[uint]model.Stock, len(stocks))
	symbols := make([]string, 0, len(stocks))
	for _, stock := range stocks {
		stockByID[stock.ID] = stock
		symbols = append(symbols, stock.Symbol)
	}
	prices := s.quotes.GetPrices(ctx, symbols)

	for _, holding := range holdings {
		stock, ok := stockByID[holding.StockID]
		if !ok {
			continue
		}

		position := dto.PortfolioPosition{
			Symbol:      stock.Symbol,
			CompanyName: stock.CompanyName,
			Shares:      holding.Shares,
			AverageCost: holding.AverageCost,
			CostBasis:   holding.CostBasis(),
		}

		if price := prices[stock.Symbol]; price != nil {
			position.CurrentPrice = price
			position.MarketValue = utils.ToPointer(holding.Shares * *price)
			summary.TotalMarketValue += *position.MarketValue
		}
		if position.CostBasis != nil {
			summary.TotalCostBasis += *position.CostBasis
			if position.MarketValue != nil {
				gain := *position.MarketValue - *position.CostBasis
				position.GainLoss = &gain
				if *position.CostBasis != 0 {
					position.GainLossPct = utils.ToPointer(gain / *position.CostBasis * 100)
				}
			}
		}

		summary.Positions = append(summary.Positions, position)
	}

	summary.TotalGainLoss = summary.TotalMarketValue - summary.TotalCostBasis
	return summary, nil
}

func (s *portfolioService) SetHolding(ctx context.Context, symbol string, req dto.HoldingRequest) (*model.Holding, error) {
	stock, err := s.repo.StockRepo.GetBySymbol(ctx, utils.NormalizeSymbol(symbol))
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, ErrStockNotFound
	}

	holding := &model.Holding{
		StockID:     stock.ID,
		Shares:      req.Shares,
		AverageCost: req.AverageCost,
	}
	if err := s.repo.HoldingRepo.Upsert(ctx, holding); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Holding updated",
		logger.StringField("symbol", stock.Symbol),
		logger.Float64Field("shares", req.Shares))
	return holding, nil
}

func (s *portfolioService) DeleteHolding(ctx context.Context, symbol string) error {
	stock, err := s.repo.StockRepo.GetBySymbol(ctx, utils.NormalizeSymbol(symbol))
	if err != nil {
		return err
	}
	if stock == nil {
		return ErrStockNotFound
	}
	return s.repo.HoldingRepo.Delete(ctx, stock.ID)
}
