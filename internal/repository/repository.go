package repository

import (
	"stock-watchlist/config"
	"stock-watchlist/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	StockRepo        StockRepository
	TargetRepo       TargetRepository
	TagRepo          TagRepository
	NoteRepo         NoteRepository
	HoldingRepo      HoldingRepository
	AlertHistoryRepo AlertHistoryRepository
	YahooFinanceRepo YahooFinanceRepository
	UnitOfWork       UnitOfWork
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) *Repository {
	return &Repository{
		StockRepo:        NewStockRepository(db),
		TargetRepo:       NewTargetRepository(db),
		TagRepo:          NewTagRepository(db),
		NoteRepo:         NewNoteRepository(db),
		HoldingRepo:      NewHoldingRepository(db),
		AlertHistoryRepo: NewAlertHistoryRepository(db),
		YahooFinanceRepo: NewYahooFinanceRepository(cfg, log),
		UnitOfWork:       NewUnitOfWork(db),
	}
}
