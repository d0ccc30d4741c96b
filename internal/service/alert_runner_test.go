package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stock-watchlist/internal/dto"
	"stock-watchlist/internal/model"
	"stock-watchlist/internal/notification"
	"stock-watchlist/internal/repository"
	"stock-watchlist/pkg/logger"
	"stock-watchlist/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeStockRepo struct {
	stocks []model.Stock
	err    error
}

func (f *fakeStockRepo) Get(ctx context.Context, param repository.GetStocksParam, opts ...utils.DBOption) ([]model.Stock, error) {
	return f.stocks, f.err
}

func (f *fakeStockRepo) GetBySymbol(ctx context.Context, symbol string, opts ...utils.DBOption) (*model.Stock, error) {
	for i := range f.stocks {
		if f.stocks[i].Symbol == symbol {
			return &f.stocks[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStockRepo) GetAllWithActiveTargets(ctx context.Context) ([]model.Stock, error) {
	return f.stocks, f.err
}

func (f *fakeStockRepo) Create(ctx context.Context, stock *model.Stock, opts ...utils.DBOption) error {
	f.stocks = append(f.stocks, *stock)
	return nil
}

func (f *fakeStockRepo) Update(ctx context.Context, stock *model.Stock, opts ...utils.DBOption) error {
	return nil
}

func (f *fakeStockRepo) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	return nil
}

type markCall struct {
	IDs      []uint
	Notified bool
	Channels datatypes.JSON
}

type fakeHistoryRepo struct {
	mu        sync.Mutex
	nextID    uint
	created   []model.AlertHistory
	marks     []markCall
	createErr error
}

func (f *fakeHistoryRepo) Create(ctx context.Context, history *model.AlertHistory, opts ...utils.DBOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	history.ID = f.nextID
	f.created = append(f.created, *history)
	return nil
}

func (f *fakeHistoryRepo) Get(ctx context.Context, param repository.GetAlertHistoryParam) ([]model.AlertHistory, error) {
	return f.created, nil
}

func (f *fakeHistoryRepo) GetLatestByStockIDs(ctx context.Context, stockIDs []uint) (map[uint]model.AlertHistory, error) {
	return map[uint]model.AlertHistory{}, nil
}

func (f *fakeHistoryRepo) MarkNotified(ctx context.Context, ids []uint, notified bool, channels datatypes.JSON, opts ...utils.DBOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marks = append(f.marks, markCall{IDs: ids, Notified: notified, Channels: channels})
	return nil
}

func (f *fakeHistoryRepo) Delete(ctx context.Context, id uint, opts ...utils.DBOption) error {
	return nil
}

type fakeSink struct {
	name  string
	err   error
	sent  [][]dto.Alert
	calls int
}

func (f *fakeSink) Name() string { return f.name }

func (f *fakeSink) Send(ctx context.Context, alerts []dto.Alert) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, alerts)
	return nil
}

func watchedStock(id uint, symbol string, targets ...model.Target) model.Stock {
	return model.Stock{ID: id, Symbol: symbol, Targets: targets}
}

func activeTarget(id uint, tt model.TargetType, price float64) model.Target {
	return model.Target{ID: id, TargetType: tt, TargetPrice: price, IsActive: utils.ToPointer(true)}
}

func newTestRunner(t *testing.T, stocks []model.Stock, prices map[string]float64, failing []string, sinks ...*fakeSink) (*AlertRunner, *fakeHistoryRepo) {
	t.Helper()

	repo := newFakeYahooRepo()
	for sym, price := range prices {
		repo.prices[sym] = price
	}
	for _, sym := range failing {
		repo.failing[sym] = true
	}

	now := time.Now()
	quotes := newTestQuoteService(repo, &now)

	historyRepo := &fakeHistoryRepo{}
	log := logger.NewNop()

	sinkList := make([]notification.Sink, 0, len(sinks))
	for _, sink := range sinks {
		sinkList = append(sinkList, sink)
	}

	runner := NewAlertRunner(log, &fakeStockRepo{stocks: stocks}, historyRepo, quotes, NewAlertChecker(log), sinkList)
	return runner, historyRepo
}

func TestAlertRunner_RunCycle_TriggersAndNotifies(t *testing.T) {
	note := "earnings next week"
	stocks := []model.Stock{
		watchedStock(1, "AAPL",
			model.Target{ID: 10, TargetType: model.TargetBuy, TargetPrice: 150, AlertNote: &note, IsActive: utils.ToPointer(true)},
			activeTarget(11, model.TargetSell, 200),
		),
		watchedStock(2, "MSFT", activeTarget(20, model.TargetSell, 400)),
	}

	sink := &fakeSink{name: "telegram"}
	runner, history := newTestRunner(t, stocks,
		map[string]float64{"AAPL": 149.0, "MSFT": 430.0}, nil, sink)

	result, err := runner.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.StocksChecked)
	assert.Equal(t, 3, result.TargetsChecked)
	require.Len(t, result.Alerts, 2)

	// Watchlist order is preserved: AAPL's buy trigger first, then MSFT.
	assert.Equal(t, uint(10), result.Alerts[0].TargetID)
	assert.Equal(t, uint(20), result.Alerts[1].TargetID)
	assert.True(t, result.Notified)

	// One consolidated send covering both alerts.
	require.Len(t, sink.sent, 1)
	assert.Len(t, sink.sent[0], 2)

	// History rows carry the originating IDs and are flagged notified.
	require.Len(t, history.created, 2)
	assert.Equal(t, uint(1), history.created[0].StockID)
	assert.Equal(t, uint(10), history.created[0].TargetID)
	assert.Equal(t, 149.0, history.created[0].CurrentPrice)
	require.NotNil(t, history.created[0].AlertNote)
	assert.Equal(t, note, *history.created[0].AlertNote)

	require.Len(t, history.marks, 1)
	assert.Equal(t, []uint{1, 2}, history.marks[0].IDs)
	assert.True(t, history.marks[0].Notified)
	assert.Contains(t, string(history.marks[0].Channels), `"telegram":true`)
}

func TestAlertRunner_RunCycle_NoAlerts(t *testing.T) {
	stocks := []model.Stock{
		watchedStock(1, "AAPL", activeTarget(10, model.TargetBuy, 100)),
	}
	sink := &fakeSink{name: "telegram"}
	runner, history := newTestRunner(t, stocks, map[string]float64{"AAPL": 180.0}, nil, sink)

	result, err := runner.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Alerts)
	assert.False(t, result.Notified)
	assert.Zero(t, sink.calls)
	assert.Empty(t, history.created)
}

func TestAlertRunner_RunCycle_FailedSymbolSkipped(t *testing.T) {
	stocks := []model.Stock{
		watchedStock(1, "ZZZZ", activeTarget(10, model.TargetBuy, 100)),
		watchedStock(2, "AAPL", activeTarget(20, model.TargetSell, 150)),
	}
	sink := &fakeSink{name: "telegram"}
	runner, _ := newTestRunner(t, stocks, map[string]float64{"AAPL": 180.0}, []string{"ZZZZ"}, sink)

	result, err := runner.RunCycle(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, "AAPL", result.Alerts[0].Symbol)
}

func TestAlertRunner_RunCycle_OneSinkFails(t *testing.T) {
	stocks := []model.Stock{
		watchedStock(1, "AAPL", activeTarget(10, model.TargetBuy, 200)),
	}
	emailSink := &fakeSink{name: "email", err: errors.New("smtp refused")}
	telegramSink := &fakeSink{name: "telegram"}

	runner, history := newTestRunner(t, stocks, map[string]float64{"AAPL": 180.0}, nil, emailSink, telegramSink)

	result, err := runner.RunCycle(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Alerts, 1)

	// The failing channel does not block the healthy one, and one delivered
	// channel is enough to mark the cycle notified.
	assert.Equal(t, 1, emailSink.calls)
	require.Len(t, telegramSink.sent, 1)
	assert.True(t, result.Notified)

	require.Len(t, history.marks, 1)
	assert.True(t, history.marks[0].Notified)
	assert.Contains(t, string(history.marks[0].Channels), `"email":false`)
	assert.Contains(t, string(history.marks[0].Channels), `"telegram":true`)
}

func TestAlertRunner_RunCycle_AllSinksFail(t *testing.T) {
	stocks := []model.Stock{
		watchedStock(1, "AAPL", activeTarget(10, model.TargetBuy, 200)),
	}
	sink := &fakeSink{name: "telegram", err: errors.New("bot down")}
	runner, history := newTestRunner(t, stocks, map[string]float64{"AAPL": 180.0}, nil, sink)

	result, err := runner.RunCycle(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Notified)

	require.Len(t, history.marks, 1)
	assert.False(t, history.marks[0].Notified)
}

func TestAlertRunner_RunCycle_ZeroSinks(t *testing.T) {
	stocks := []model.Stock{
		watchedStock(1, "AAPL", activeTarget(10, model.TargetBuy, 200)),
	}
	runner, history := newTestRunner(t, stocks, map[string]float64{"AAPL": 180.0}, nil)

	result, err := runner.RunCycle(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Alerts, 1)
	assert.False(t, result.Notified)

	// History is still written even with nothing to deliver to.
	require.Len(t, history.created, 1)
	require.Len(t, history.marks, 1)
	assert.False(t, history.marks[0].Notified)
}

func TestAlertRunner_RunCycle_InactiveTargetsIgnored(t *testing.T) {
	stocks := []model.Stock{
		watchedStock(1, "AAPL",
			model.Target{ID: 10, TargetType: model.TargetBuy, TargetPrice: 200, IsActive: utils.ToPointer(false)},
			activeTarget(11, model.TargetSell, 150),
		),
	}
	runner, _ := newTestRunner(t, stocks, map[string]float64{"AAPL": 180.0}, nil)

	result, err := runner.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.TargetsChecked)
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, uint(11), result.Alerts[0].TargetID)
}

func TestAlertRunner_RunCycle_EmptyWatchlist(t *testing.T) {
	runner, _ := newTestRunner(t, nil, nil, nil)

	result, err := runner.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.StocksChecked)
	assert.Empty(t, result.Alerts)
}

func TestAlertRunner_RunCycle_RepoError(t *testing.T) {
	repo := newFakeYahooRepo()
	now := time.Now()
	quotes := newTestQuoteService(repo, &now)
	log := logger.NewNop()

	runner := NewAlertRunner(log,
		&fakeStockRepo{err: errors.New("db down")},
		&fakeHistoryRepo{}, quotes, NewAlertChecker(log), nil)

	_, err := runner.RunCycle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
