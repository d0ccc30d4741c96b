package service

import (
	"stock-watchlist/config"
	"stock-watchlist/internal/notification"
	"stock-watchlist/internal/repository"
	"stock-watchlist/pkg/cache"
	"stock-watchlist/pkg/logger"
)

type Service struct {
	QuoteService     QuoteService
	StockService     StockService
	PortfolioService PortfolioService
	AlertRunner      *AlertRunner
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	sinks []notification.Sink,
) *Service {
	fetchCache := cache.NewFetchCache(inmemoryCache)
	quoteService := NewQuoteService(cfg, log, repo.YahooFinanceRepo, fetchCache)

	checker := NewAlertChecker(log)
	alertRunner := NewAlertRunner(log, repo.StockRepo, repo.AlertHistoryRepo, quoteService, checker, sinks)

	return &Service{
		QuoteService:     quoteService,
		StockService:     NewStockService(log, repo, quoteService),
		PortfolioService: NewPortfolioService(log, repo, quoteService),
		AlertRunner:      alertRunner,
		SchedulerService: NewSchedulerService(cfg, log, alertRunner),
	}
}
