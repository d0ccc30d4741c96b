package service

import (
	"stock-watchlist/internal/dto"
	"stock-watchlist/pkg/logger"
)

// AlertChecker decides whether price targets have been met. It is pure
// decision logic: no I/O, no persistence, deterministic for a given input.
// Target validation (positive prices, trim percentage presence) is the
// creator's responsibility, not the checker's.
type AlertChecker struct {
	log *logger.Logger
}

func NewAlertChecker(log *logger.Logger) *AlertChecker {
	return &AlertChecker{log: log}
}

// CheckAlert evaluates one watch entry against a current price. A nil price
// means the quote could not be resolved this cycle and never triggers.
// Both comparisons are inclusive: a price exactly at the target triggers.
func (c *AlertChecker) CheckAlert(entry dto.WatchEntry, currentPrice *float64) *dto.Alert {
	if currentPrice == nil {
		return nil
	}

	triggered := false
	switch {
	case entry.TargetType.BuySide():
		triggered = *currentPrice <= entry.TargetPrice
	case entry.TargetType.SellSide():
		triggered = *currentPrice >= entry.TargetPrice
	}

	if !triggered {
		return nil
	}

	c.log.Debug("Alert triggered",
		logger.StringField("symbol", entry.Symbol),
		logger.StringField("target_type", string(entry.TargetType)),
		logger.Float64Field("current_price", *currentPrice),
		logger.Float64Field("target_price", entry.TargetPrice),
	)

	return &dto.Alert{
		Symbol:         entry.Symbol,
		StockID:        entry.StockID,
		TargetID:       entry.TargetID,
		CurrentPrice:   *currentPrice,
		TargetPrice:    entry.TargetPrice,
		TargetType:     entry.TargetType,
		TrimPercentage: entry.TrimPercentage,
		AlertNote:      entry.AlertNote,
	}
}

// CheckAllAlerts evaluates every watch entry against the resolved price map
// and returns the triggered alerts in entry order. Entries whose symbol is
// missing from the map are skipped silently; repeated symbols are evaluated
// independently, never deduplicated.
func (c *AlertChecker) CheckAllAlerts(entries []dto.WatchEntry, prices map[string]*float64) []dto.Alert {
	var alerts []dto.Alert

	for _, entry := range entries {
		if alert := c.CheckAlert(entry, prices[entry.Symbol]); alert != nil {
			alerts = append(alerts, *alert)
		}
	}

	c.log.Debug("Alert check completed",
		logger.IntField("entries", len(entries)),
		logger.IntField("triggered", len(alerts)),
	)
	return alerts
}
