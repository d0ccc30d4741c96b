package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"stock-watchlist/config"
	"stock-watchlist/internal/dto"
	"stock-watchlist/pkg/cache"
	"stock-watchlist/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeYahooRepo serves canned chart data and counts upstream calls so tests
// can observe whether the cache absorbed a request.
type fakeYahooRepo struct {
	mu          sync.Mutex
	prices      map[string]float64
	failing     map[string]bool
	history     map[string][]float64
	chartCalls  int
	searchCalls int
	searchErr   error
	results     []dto.SymbolSearchResult
}

func newFakeYahooRepo() *fakeYahooRepo {
	return &fakeYahooRepo{
		prices:  map[string]float64{},
		failing: map[string]bool{},
		history: map[string][]float64{},
	}
}

func (f *fakeYahooRepo) GetChart(ctx context.Context, param dto.GetChartParam) (*dto.ChartData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chartCalls++

	if f.failing[param.Symbol] {
		return nil, fmt.Errorf("no data for %s", param.Symbol)
	}

	price, ok := f.prices[param.Symbol]
	if !ok {
		return nil, fmt.Errorf("no data for %s", param.Symbol)
	}

	data := &dto.ChartData{
		Symbol:       param.Symbol,
		MarketPrice:  price,
		ShortName:    param.Symbol + " Inc.",
		LongName:     param.Symbol + " Incorporated",
		ExchangeName: "NasdaqGS",
		Currency:     "USD",
	}
	for i, close := range f.history[param.Symbol] {
		data.OHLCV = append(data.OHLCV, dto.StockOHLCV{
			Timestamp: int64(i),
			Open:      close,
			High:      close,
			Low:       close,
			Close:     close,
		})
	}
	return data, nil
}

func (f *fakeYahooRepo) Search(ctx context.Context, query string) ([]dto.SymbolSearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeYahooRepo) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chartCalls
}

func testQuoteConfig() *config.Config {
	return &config.Config{
		Cache: config.Cache{
			PriceTTL:      time.Minute,
			InfoTTL:       time.Minute,
			SearchTTL:     5 * time.Minute,
			ValidationTTL: time.Hour,
			OverviewTTL:   5 * time.Minute,
		},
		Scheduler: config.Scheduler{MaxConcurrency: 4},
	}
}

func newTestQuoteService(repo *fakeYahooRepo, now *time.Time) QuoteService {
	store := cache.NewCache(time.Minute, time.Minute)
	fc := cache.NewFetchCacheWithClock(store, func() time.Time { return *now })
	return NewQuoteService(testQuoteConfig(), logger.NewNop(), repo, fc)
}

func TestQuoteService_GetPrice(t *testing.T) {
	repo := newFakeYahooRepo()
	repo.prices["AAPL"] = 182.5
	now := time.Now()
	svc := newTestQuoteService(repo, &now)

	price := svc.GetPrice(context.Background(), "aapl")
	require.NotNil(t, price)
	assert.Equal(t, 182.5, *price)

	// Second call within the window is served from cache.
	svc.GetPrice(context.Background(), "AAPL")
	assert.Equal(t, 1, repo.calls())

	// Past the window the fetch happens again.
	now = now.Add(61 * time.Second)
	svc.GetPrice(context.Background(), "AAPL")
	assert.Equal(t, 2, repo.calls())
}

func TestQuoteService_GetPrice_FailureCachedForWindow(t *testing.T) {
	repo := newFakeYahooRepo()
	repo.failing["ZZZZ"] = true
	now := time.Now()
	svc := newTestQuoteService(repo, &now)

	assert.Nil(t, svc.GetPrice(context.Background(), "ZZZZ"))
	assert.Nil(t, svc.GetPrice(context.Background(), "ZZZZ"))
	assert.Equal(t, 1, repo.calls(), "the failed lookup should be cached, not retried")
}

func TestQuoteService_GetPrices(t *testing.T) {
	repo := newFakeYahooRepo()
	repo.prices["AAPL"] = 182.5
	repo.prices["MSFT"] = 430.0
	repo.failing["ZZZZ"] = true
	now := time.Now()
	svc := newTestQuoteService(repo, &now)

	prices := svc.GetPrices(context.Background(), []string{"AAPL", "MSFT", "ZZZZ"})
	require.Len(t, prices, 3)
	require.NotNil(t, prices["AAPL"])
	assert.Equal(t, 182.5, *prices["AAPL"])
	require.NotNil(t, prices["MSFT"])
	assert.Equal(t, 430.0, *prices["MSFT"])
	assert.Nil(t, prices["ZZZZ"])
	assert.Equal(t, 3, repo.calls())

	// Same symbol set in any order or case hits the same cache entry.
	again := svc.GetPrices(context.Background(), []string{"zzzz", "msft", "aapl"})
	assert.Equal(t, prices, again)
	assert.Equal(t, 3, repo.calls())
}

func TestQuoteService_GetPrices_Empty(t *testing.T) {
	repo := newFakeYahooRepo()
	now := time.Now()
	svc := newTestQuoteService(repo, &now)

	assert.Empty(t, svc.GetPrices(context.Background(), nil))
	assert.Equal(t, 0, repo.calls())
}

func TestQuoteService_GetCompanyInfo(t *testing.T) {
	repo := newFakeYahooRepo()
	repo.prices["AAPL"] = 182.5
	now := time.Now()
	svc := newTestQuoteService(repo, &now)

	info := svc.GetCompanyInfo(context.Background(), "AAPL")
	require.NotNil(t, info)
	assert.Equal(t, "AAPL Incorporated", info.Name)
	assert.Equal(t, "NasdaqGS", info.Exchange)
	assert.Equal(t, "USD", info.Currency)

	assert.Nil(t, svc.GetCompanyInfo(context.Background(), "ZZZZ"))
}

func TestQuoteService_GetCompanyInfos(t *testing.T) {
	repo := newFakeYahooRepo()
	repo.prices["AAPL"] = 182.5
	repo.prices["MSFT"] = 430.0
	now := time.Now()
	svc := newTestQuoteService(repo, &now)

	infos := svc.GetCompanyInfos(context.Background(), []string{"AAPL", "MSFT", "ZZZZ"})
	require.Len(t, infos, 3)
	assert.NotNil(t, infos["AAPL"])
	assert.NotNil(t, infos["MSFT"])
	assert.Nil(t, infos["ZZZZ"])
}

func TestComputeRSI(t *testing.T) {
	t.Run("insufficient history", func(t *testing.T) {
		assert.Nil(t, computeRSI([]float64{1, 2, 3}, 14))
		assert.Nil(t, computeRSI(nil, 14))
		assert.Nil(t, computeRSI([]float64{1, 2}, 0))
	})

	t.Run("all gains", func(t *testing.T) {
		closes := []float64{1, 2, 3, 4, 5, 6}
		rsi := computeRSI(closes, 5)
		require.NotNil(t, rsi)
		assert.Equal(t, 100.0, *rsi)
	})

	t.Run("balanced moves", func(t *testing.T) {
		// Alternating +1/-1 gives avgGain == avgLoss, so RSI sits at 50.
		closes := []float64{10, 11, 10, 11, 10}
		rsi := computeRSI(closes, 4)
		require.NotNil(t, rsi)
		assert.InDelta(t, 50.0, *rsi, 0.0001)
	})
}

func TestQuoteService_GetRSI(t *testing.T) {
	repo := newFakeYahooRepo()
	repo.prices["AAPL"] = 182.5
	history := make([]float64, 0, 30)
	for i := 0; i < 30; i++ {
		history = append(history, 100+float64(i))
	}
	repo.history["AAPL"] = history
	now := time.Now()
	svc := newTestQuoteService(repo, &now)

	rsi := svc.GetRSI(context.Background(), "AAPL", 14)
	require.NotNil(t, rsi)
	assert.Equal(t, 100.0, *rsi)

	assert.Nil(t, svc.GetRSI(context.Background(), "ZZZZ", 14))
}

func TestQuoteService_ValidateSymbol(t *testing.T) {
	repo := newFakeYahooRepo()
	repo.prices["AAPL"] = 182.5
	now := time.Now()
	svc := newTestQuoteService(repo, &now)

	assert.True(t, svc.ValidateSymbol(context.Background(), "aapl"))
	assert.False(t, svc.ValidateSymbol(context.Background(), "NOPE"))

	// Both verdicts are cached.
	svc.ValidateSymbol(context.Background(), "AAPL")
	svc.ValidateSymbol(context.Background(), "NOPE")
	assert.Equal(t, 2, repo.calls())
}

func TestQuoteService_Search(t *testing.T) {
	repo := newFakeYahooRepo()
	repo.results = []dto.SymbolSearchResult{
		{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NMS", QuoteType: "EQUITY"},
	}
	now := time.Now()
	svc := newTestQuoteService(repo, &now)

	results, err := svc.Search(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "AAPL", results[0].Symbol)

	// Query matching is case and whitespace insensitive for the cache key.
	_, err = svc.Search(context.Background(), "  Apple ")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.searchCalls)
}

func TestQuoteService_Search_ErrorCached(t *testing.T) {
	repo := newFakeYahooRepo()
	repo.searchErr = errors.New("rate limited")
	now := time.Now()
	svc := newTestQuoteService(repo, &now)

	_, err := svc.Search(context.Background(), "apple")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "rate limited"))

	_, err = svc.Search(context.Background(), "apple")
	require.Error(t, err)
	assert.Equal(t, 1, repo.searchCalls)
}

func TestQuoteService_GetMarketOverview(t *testing.T) {
	repo := newFakeYahooRepo()
	repo.prices["^GSPC"] = 5500.0
	repo.prices["^DJI"] = 40000.0
	repo.failing["^IXIC"] = true
	repo.prices["^VIX"] = 15.0
	now := time.Now()
	svc := newTestQuoteService(repo, &now)

	overview, err := svc.GetMarketOverview(context.Background())
	require.NoError(t, err)
	require.Len(t, overview.Indices, 4)

	assert.Equal(t, "S&P 500", overview.Indices[0].Name)
	require.NotNil(t, overview.Indices[0].Price)
	assert.Equal(t, 5500.0, *overview.Indices[0].Price)
	assert.Nil(t, overview.Indices[2].Price)
}

func TestQuoteService_FlushCache(t *testing.T) {
	repo := newFakeYahooRepo()
	repo.prices["AAPL"] = 182.5
	now := time.Now()
	svc := newTestQuoteService(repo, &now)

	svc.GetPrice(context.Background(), "AAPL")
	svc.FlushCache()
	svc.GetPrice(context.Background(), "AAPL")
	assert.Equal(t, 2, repo.calls())
}
