package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stock-watchlist/internal/dto"
	"stock-watchlist/internal/model"
	"stock-watchlist/internal/notification"
	"stock-watchlist/internal/repository"
	"stock-watchlist/pkg/logger"

	"gorm.io/datatypes"
)

// CycleResult summarizes one evaluation cycle for callers and for the manual
// check endpoint.
type CycleResult struct {
	StocksChecked  int         `json:"stocks_checked"`
	TargetsChecked int         `json:"targets_checked"`
	Alerts         []dto.Alert `json:"alerts"`
	Notified       bool        `json:"notified"`
	StartedAt      time.Time   `json:"started_at"`
	Duration       string      `json:"duration"`
}

// AlertRunner coordinates one full evaluation cycle: load the watchlist,
// fetch prices once for the deduplicated symbol set, run the engine, persist
// history, and dispatch one consolidated notification per channel.
type AlertRunner struct {
	log          *logger.Logger
	stockRepo    repository.StockRepository
	historyRepo  repository.AlertHistoryRepository
	quoteService QuoteService
	checker      *AlertChecker
	sinks        []notification.Sink
}

func NewAlertRunner(
	log *logger.Logger,
	stockRepo repository.StockRepository,
	historyRepo repository.AlertHistoryRepository,
	quoteService QuoteService,
	checker *AlertChecker,
	sinks []notification.Sink,
) *AlertRunner {
	return &AlertRunner{
		log:          log,
		stockRepo:    stockRepo,
		historyRepo:  historyRepo,
		quoteService: quoteService,
		checker:      checker,
		sinks:        sinks,
	}
}

// RunCycle executes one evaluation cycle. A panic anywhere inside the cycle
// is recovered and reported as an error so the scheduler daemon survives.
func (r *AlertRunner) RunCycle(ctx context.Context) (result *CycleResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("evaluation cycle panicked: %v", rec)
			r.log.ErrorContext(ctx, "Evaluation cycle panicked", logger.Field("panic", rec))
		}
	}()

	startedAt := time.Now()
	r.log.InfoContext(ctx, "Starting evaluation cycle")

	stocks, err := r.stockRepo.GetAllWithActiveTargets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	entries := buildWatchEntries(stocks)
	if len(entries) == 0 {
		r.log.InfoContext(ctx, "No active targets to evaluate")
		return &CycleResult{
			StocksChecked: len(stocks),
			Alerts:        []dto.Alert{},
			StartedAt:     startedAt,
			Duration:      time.Since(startedAt).String(),
		}, nil
	}

	prices := r.quoteService.GetPrices(ctx, uniqueSymbols(entries))
	alerts := r.checker.CheckAllAlerts(entries, prices)

	r.log.InfoContext(ctx, "Evaluation finished",
		logger.IntField("stocks", len(stocks)),
		logger.IntField("entries", len(entries)),
		logger.IntField("alerts", len(alerts)))

	notified := false
	if len(alerts) > 0 {
		historyIDs := r.recordAlerts(ctx, alerts)
		channels := r.dispatch(ctx, alerts)
		notified = anyDelivered(channels)
		r.markNotified(ctx, historyIDs, notified, channels)
	}

	return &CycleResult{
		StocksChecked:  len(stocks),
		TargetsChecked: len(entries),
		Alerts:         alerts,
		Notified:       notified,
		StartedAt:      startedAt,
		Duration:       time.Since(startedAt).String(),
	}, nil
}

// buildWatchEntries flattens stocks into (stock, active target) pairs,
// preserving watchlist order and target order within each stock.
func buildWatchEntries(stocks []model.Stock) []dto.WatchEntry {
	var entries []dto.WatchEntry
	for _, stock := range stocks {
		for _, target := range stock.Targets {
			if !target.Active() {
				continue
			}
			entries = append(entries, dto.WatchEntry{
				Symbol:         stock.Symbol,
				StockID:        stock.ID,
				TargetID:       target.ID,
				TargetType:     target.TargetType,
				TargetPrice:    target.TargetPrice,
				TrimPercentage: target.TrimPercentage,
				AlertNote:      target.AlertNote,
			})
		}
	}
	return entries
}

func uniqueSymbols(entries []dto.WatchEntry) []string {
	seen := make(map[string]bool, len(entries))
	var symbols []string
	for _, entry := range entries {
		if !seen[entry.Symbol] {
			seen[entry.Symbol] = true
			symbols = append(symbols, entry.Symbol)
		}
	}
	return symbols
}

// recordAlerts persists one history row per triggered alert and returns the
// new row IDs. A row that fails to persist is logged and skipped; the cycle
// still notifies about the alert.
func (r *AlertRunner) recordAlerts(ctx context.Context, alerts []dto.Alert) []uint {
	ids := make([]uint, 0, len(alerts))
	for _, alert := range alerts {
		history := &model.AlertHistory{
			StockID:      alert.StockID,
			TargetID:     alert.TargetID,
			CurrentPrice: alert.CurrentPrice,
			TargetPrice:  alert.TargetPrice,
			TargetType:   alert.TargetType,
			AlertNote:    alert.AlertNote,
		}
		if err := r.historyRepo.Create(ctx, history); err != nil {
			r.log.ErrorContext(ctx, "Failed to record alert history",
				logger.StringField("symbol", alert.Symbol),
				logger.ErrorField(err))
			continue
		}
		ids = append(ids, history.ID)
	}
	return ids
}

// dispatch sends the cycle's consolidated message through every configured
// sink. Sinks fail independently; the returned map holds the per-channel
// outcome.
func (r *AlertRunner) dispatch(ctx context.Context, alerts []dto.Alert) map[string]bool {
	channels := make(map[string]bool, len(r.sinks))
	for _, sink := range r.sinks {
		if err := sink.Send(ctx, alerts); err != nil {
			r.log.ErrorContext(ctx, "Notification channel failed",
				logger.StringField("channel", sink.Name()),
				logger.ErrorField(err))
			channels[sink.Name()] = false
			continue
		}
		r.log.InfoContext(ctx, "Notification sent",
			logger.StringField("channel", sink.Name()),
			logger.IntField("alerts", len(alerts)))
		channels[sink.Name()] = true
	}
	return channels
}

func anyDelivered(channels map[string]bool) bool {
	for _, ok := range channels {
		if ok {
			return true
		}
	}
	return false
}

func (r *AlertRunner) markNotified(ctx context.Context, ids []uint, notified bool, channels map[string]bool) {
	if len(ids) == 0 {
		return
	}
	payload, err := json.Marshal(channels)
	if err != nil {
		payload = []byte("{}")
	}
	if err := r.historyRepo.MarkNotified(ctx, ids, notified, datatypes.JSON(payload)); err != nil {
		r.log.ErrorContext(ctx, "Failed to update notified flag", logger.ErrorField(err))
	}
}
