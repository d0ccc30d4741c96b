package service

import (
	"context"
	"strings"
	"sync"

	"stock-watchlist/config"
	"stock-watchlist/internal/dto"
	"stock-watchlist/internal/repository"
	"stock-watchlist/pkg/cache"
	"stock-watchlist/pkg/logger"
	"stock-watchlist/pkg/utils"

	"golang.org/x/sync/errgroup"
)

const (
	keyKindPrice    = "price"
	keyKindPrices   = "prices"
	keyKindInfo     = "info"
	keyKindRSI      = "rsi"
	keyKindValidate = "validate"
	keyKindSearch   = "search"
	keyOverview     = "market_overview"
)

// marketIndices are the quotes shown on the market overview.
var marketIndices = []struct {
	Symbol string
	Name   string
}{
	{"^GSPC", "S&P 500"},
	{"^DJI", "Dow Jones"},
	{"^IXIC", "Nasdaq"},
	{"^VIX", "VIX"},
}

// QuoteService resolves market data through the upstream quote source, with
// every fetch kind memoized behind its own freshness window. A failed fetch
// resolves to a nil price and is cached for the window like any other result.
type QuoteService interface {
	GetPrice(ctx context.Context, symbol string) *float64
	GetPrices(ctx context.Context, symbols []string) map[string]*float64
	GetCompanyInfo(ctx context.Context, symbol string) *dto.CompanyInfo
	GetCompanyInfos(ctx context.Context, symbols []string) map[string]*dto.CompanyInfo
	GetRSI(ctx context.Context, symbol string, period int) *float64
	ValidateSymbol(ctx context.Context, symbol string) bool
	Search(ctx context.Context, query string) ([]dto.SymbolSearchResult, error)
	GetMarketOverview(ctx context.Context) (*dto.MarketOverview, error)
	FlushCache()
}

type quoteService struct {
	cfg        *config.Config
	log        *logger.Logger
	yahooRepo  repository.YahooFinanceRepository
	fetchCache *cache.FetchCache
}

func NewQuoteService(cfg *config.Config, log *logger.Logger, yahooRepo repository.YahooFinanceRepository, fetchCache *cache.FetchCache) QuoteService {
	return &quoteService{
		cfg:        cfg,
		log:        log,
		yahooRepo:  yahooRepo,
		fetchCache: fetchCache,
	}
}

// fetchPrice resolves one symbol's price directly from the upstream source.
// Any failure becomes a nil price for that symbol, never an error.
func (s *quoteService) fetchPrice(ctx context.Context, symbol string) *float64 {
	chartData, err := s.yahooRepo.GetChart(ctx, dto.GetChartParam{
		Symbol:   symbol,
		Range:    "1d",
		Interval: "1d",
	})
	if err != nil {
		s.log.WarnContext(ctx, "Failed to fetch price",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err))
		return nil
	}
	return &chartData.MarketPrice
}

func (s *quoteService) GetPrice(ctx context.Context, symbol string) *float64 {
	symbol = utils.NormalizeSymbol(symbol)
	value, _ := s.fetchCache.GetOrFetch(ctx, cache.SymbolKey(keyKindPrice, symbol), s.cfg.Cache.PriceTTL,
		func(ctx context.Context) (interface{}, error) {
			return s.fetchPrice(ctx, symbol), nil
		})

	price, _ := value.(*float64)
	return price
}

// GetPrices resolves many symbols through one cache entry keyed on the
// deduplicated symbol set, so overlapping batch requests within the window
// share a single upstream pass. The upstream chart API takes one symbol per
// request, so the batch degrades to sequential fetches with a cancellation
// check between each.
func (s *quoteService) GetPrices(ctx context.Context, symbols []string) map[string]*float64 {
	if len(symbols) == 0 {
		return map[string]*float64{}
	}

	key := cache.SymbolSetKey(keyKindPrices, symbols)
	value, _ := s.fetchCache.GetOrFetch(ctx, key, s.cfg.Cache.PriceTTL,
		func(ctx context.Context) (interface{}, error) {
			prices := make(map[string]*float64, len(symbols))
			for _, symbol := range symbols {
				symbol = utils.NormalizeSymbol(symbol)
				if symbol == "" {
					continue
				}
				if _, done := prices[symbol]; done {
					continue
				}
				if !utils.ShouldContinue(ctx, s.log) {
					break
				}
				prices[symbol] = s.fetchPrice(ctx, symbol)
			}
			return prices, nil
		})

	prices, ok := value.(map[string]*float64)
	if !ok {
		return map[string]*float64{}
	}
	return prices
}

func (s *quoteService) GetCompanyInfo(ctx context.Context, symbol string) *dto.CompanyInfo {
	symbol = utils.NormalizeSymbol(symbol)
	value, _ := s.fetchCache.GetOrFetch(ctx, cache.SymbolKey(keyKindInfo, symbol), s.cfg.Cache.InfoTTL,
		func(ctx context.Context) (interface{}, error) {
			chartData, err := s.yahooRepo.GetChart(ctx, dto.GetChartParam{
				Symbol:   symbol,
				Range:    "1d",
				Interval: "1d",
			})
			if err != nil {
				s.log.WarnContext(ctx, "Failed to fetch company info",
					logger.StringField("symbol", symbol),
					logger.ErrorField(err))
				return (*dto.CompanyInfo)(nil), nil
			}

			name := chartData.LongName
			if name == "" {
				name = chartData.ShortName
			}
			return &dto.CompanyInfo{
				Symbol:   symbol,
				Name:     name,
				Exchange: chartData.ExchangeName,
				Currency: chartData.Currency,
			}, nil
		})

	info, _ := value.(*dto.CompanyInfo)
	return info
}

// GetCompanyInfos fetches metadata for many symbols with a bounded worker
// pool; the fetches are independent reads, so ordering between them does not
// matter.
func (s *quoteService) GetCompanyInfos(ctx context.Context, symbols []string) map[string]*dto.CompanyInfo {
	infos := make(map[string]*dto.CompanyInfo, len(symbols))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Scheduler.MaxConcurrency)

	for _, symbol := range symbols {
		symbol := utils.NormalizeSymbol(symbol)
		if symbol == "" {
			continue
		}
		g.Go(func() error {
			info := s.GetCompanyInfo(gctx, symbol)
			mu.Lock()
			infos[symbol] = info
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return infos
}

func (s *quoteService) GetRSI(ctx context.Context, symbol string, period int) *float64 {
	symbol = utils.NormalizeSymbol(symbol)
	value, _ := s.fetchCache.GetOrFetch(ctx, cache.SymbolKey(keyKindRSI, symbol), s.cfg.Cache.InfoTTL,
		func(ctx context.Context) (interface{}, error) {
			chartData, err := s.yahooRepo.GetChart(ctx, dto.GetChartParam{
				Symbol:   symbol,
				Range:    "3mo",
				Interval: "1d",
			})
			if err != nil {
				s.log.WarnContext(ctx, "Failed to fetch history for RSI",
					logger.StringField("symbol", symbol),
					logger.ErrorField(err))
				return (*float64)(nil), nil
			}

			closes := make([]float64, 0, len(chartData.OHLCV))
			for _, bar := range chartData.OHLCV {
				closes = append(closes, bar.Close)
			}
			return computeRSI(closes, period), nil
		})

	rsi, _ := value.(*float64)
	return rsi
}

// computeRSI returns the simple-average RSI over the last period of closes,
// or nil when there is not enough history.
func computeRSI(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	rsi := 100.0
	if avgLoss > 0 {
		rs := avgGain / avgLoss
		rsi = 100 - (100 / (1 + rs))
	}
	return &rsi
}

func (s *quoteService) ValidateSymbol(ctx context.Context, symbol string) bool {
	symbol = utils.NormalizeSymbol(symbol)
	value, _ := s.fetchCache.GetOrFetch(ctx, cache.SymbolKey(keyKindValidate, symbol), s.cfg.Cache.ValidationTTL,
		func(ctx context.Context) (interface{}, error) {
			_, err := s.yahooRepo.GetChart(ctx, dto.GetChartParam{
				Symbol:   symbol,
				Range:    "1d",
				Interval: "1d",
			})
			return err == nil, nil
		})

	valid, _ := value.(bool)
	return valid
}

func (s *quoteService) Search(ctx context.Context, query string) ([]dto.SymbolSearchResult, error) {
	key := keyKindSearch + ":" + strings.ToLower(strings.TrimSpace(query))
	value, err := s.fetchCache.GetOrFetch(ctx, key, s.cfg.Cache.SearchTTL,
		func(ctx context.Context) (interface{}, error) {
			return s.yahooRepo.Search(ctx, query)
		})
	if err != nil {
		return nil, err
	}

	results, _ := value.([]dto.SymbolSearchResult)
	return results, nil
}

func (s *quoteService) GetMarketOverview(ctx context.Context) (*dto.MarketOverview, error) {
	value, err := s.fetchCache.GetOrFetch(ctx, keyOverview, s.cfg.Cache.OverviewTTL,
		func(ctx context.Context) (interface{}, error) {
			overview := &dto.MarketOverview{
				Indices: make([]dto.IndexQuote, 0, len(marketIndices)),
			}
			for _, index := range marketIndices {
				if !utils.ShouldContinue(ctx, s.log) {
					break
				}
				overview.Indices = append(overview.Indices, dto.IndexQuote{
					Symbol: index.Symbol,
					Name:   index.Name,
					Price:  s.fetchPrice(ctx, index.Symbol),
				})
			}
			return overview, nil
		})
	if err != nil {
		return nil, err
	}

	overview, _ := value.(*dto.MarketOverview)
	return overview, nil
}

func (s *quoteService) FlushCache() {
	s.fetchCache.Flush()
}
