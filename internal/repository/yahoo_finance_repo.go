package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"stock-watchlist/config"
	"stock-watchlist/internal/dto"
	"stock-watchlist/pkg/httpclient"
	"stock-watchlist/pkg/logger"
	"stock-watchlist/pkg/utils"

	"golang.org/x/time/rate"
)

// YahooFinanceRepository is the upstream quote source. Any failure is
// surfaced as an error for the requested symbol only; callers translate it
// into "no price available" and keep going.
type YahooFinanceRepository interface {
	GetChart(ctx context.Context, param dto.GetChartParam) (*dto.ChartData, error)
	Search(ctx context.Context, query string) ([]dto.SymbolSearchResult, error)
}

type yahooFinanceRepository struct {
	chartClient    httpclient.HTTPClient
	searchClient   httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)

	return &yahooFinanceRepository{
		chartClient:    httpclient.New(cfg.YahooFinance.BaseURL, cfg.YahooFinance.Timeout),
		searchClient:   httpclient.New(cfg.YahooFinance.SearchBaseURL, cfg.YahooFinance.Timeout),
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

// browserHeaders keeps the chart endpoint from rejecting non-browser agents.
func browserHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
		"Connection":      "keep-alive",
		"Referer":         "https://finance.yahoo.com/",
	}
}

func (r *yahooFinanceRepository) GetChart(ctx context.Context, param dto.GetChartParam) (*dto.ChartData, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	period1, period2 := r.rangeToUnix(param.Range)
	if period1 == 0 || period2 == 0 {
		return nil, fmt.Errorf("invalid range: %s", param.Range)
	}

	endpoint := "/" + utils.NormalizeSymbol(param.Symbol)
	queryParams := map[string]string{
		"period1":        fmt.Sprintf("%d", period1),
		"period2":        fmt.Sprintf("%d", period2),
		"interval":       param.Interval,
		"includePrePost": "false",
		"events":         "div,split",
	}

	var yahooResp dto.YahooChartResponse
	resp, err := r.chartClient.Get(ctx, endpoint, queryParams, browserHeaders(), &yahooResp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart data: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Yahoo Finance API returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("symbol", param.Symbol))
		return nil, fmt.Errorf("yahoo finance api returned status: %d", resp.StatusCode)
	}

	if yahooResp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo finance api error: %v", yahooResp.Chart.Error)
	}

	if len(yahooResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("no data returned for symbol: %s", param.Symbol)
	}

	result := yahooResp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data available for symbol: %s", param.Symbol)
	}

	quote := result.Indicators.Quote[0]

	var ohlcvData []dto.StockOHLCV
	for i, timestamp := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			i >= len(quote.Close) || i >= len(quote.Volume) {
			continue
		}

		// Zero bars are gaps in the feed, not real trades.
		if quote.Open[i] == 0 || quote.High[i] == 0 || quote.Low[i] == 0 || quote.Close[i] == 0 {
			continue
		}

		ohlcvData = append(ohlcvData, dto.StockOHLCV{
			Timestamp: timestamp,
			Open:      quote.Open[i],
			High:      quote.High[i],
			Low:       quote.Low[i],
			Close:     quote.Close[i],
			Volume:    quote.Volume[i],
		})
	}

	marketPrice := result.Meta.RegularMarketPrice
	if marketPrice == 0 && len(ohlcvData) > 0 {
		marketPrice = ohlcvData[len(ohlcvData)-1].Close
	}
	if marketPrice == 0 {
		return nil, fmt.Errorf("no price data found for symbol: %s", param.Symbol)
	}

	return &dto.ChartData{
		Symbol:       result.Meta.Symbol,
		MarketPrice:  marketPrice,
		ShortName:    result.Meta.ShortName,
		LongName:     result.Meta.LongName,
		ExchangeName: result.Meta.FullExchangeName,
		Currency:     result.Meta.Currency,
		OHLCV:        ohlcvData,
	}, nil
}

func (r *yahooFinanceRepository) Search(ctx context.Context, query string) ([]dto.SymbolSearchResult, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	queryParams := map[string]string{
		"q":           query,
		"quotesCount": "10",
		"newsCount":   "0",
	}

	var searchResp dto.YahooSearchResponse
	resp, err := r.searchClient.Get(ctx, "/search", queryParams, browserHeaders(), &searchResp)
	if err != nil {
		return nil, fmt.Errorf("failed to search symbols: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo finance search returned status: %d", resp.StatusCode)
	}

	results := make([]dto.SymbolSearchResult, 0, len(searchResp.Quotes))
	for _, q := range searchResp.Quotes {
		if q.Symbol == "" {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		results = append(results, dto.SymbolSearchResult{
			Symbol:    q.Symbol,
			Name:      name,
			Exchange:  q.Exchange,
			QuoteType: q.QuoteType,
		})
	}

	return results, nil
}

func (r *yahooFinanceRepository) rangeToUnix(dataRange string) (int64, int64) {
	now := time.Now()
	switch dataRange {
	case "1d":
		return utils.UnixRange(now, 1)
	case "5d":
		return utils.UnixRange(now, 5)
	case "1mo":
		return utils.UnixRange(now, 30)
	case "3mo":
		return utils.UnixRange(now, 90)
	case "6mo":
		return utils.UnixRange(now, 180)
	case "1y":
		return utils.UnixRange(now, 365)
	default:
		return 0, 0
	}
}
