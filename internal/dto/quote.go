package dto

// GetChartParam selects the history window for one chart fetch.
type GetChartParam struct {
	Symbol   string
	Range    string
	Interval string
}

type StockOHLCV struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// ChartData is the parsed result of one Yahoo chart request.
type ChartData struct {
	Symbol       string       `json:"symbol"`
	MarketPrice  float64      `json:"market_price"`
	ShortName    string       `json:"short_name"`
	LongName     string       `json:"long_name"`
	ExchangeName string       `json:"exchange_name"`
	Currency     string       `json:"currency"`
	OHLCV        []StockOHLCV `json:"ohlcv"`
}

type CompanyInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
}

type SymbolSearchResult struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Exchange  string `json:"exchange"`
	QuoteType string `json:"quote_type"`
}

type IndexQuote struct {
	Symbol string   `json:"symbol"`
	Name   string   `json:"name"`
	Price  *float64 `json:"price"`
}

type MarketOverview struct {
	Indices []IndexQuote `json:"indices"`
}

// YahooChartResponse mirrors the chart API payload.
type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				FullExchangeName   string  `json:"fullExchangeName"`
				ShortName          string  `json:"shortName"`
				LongName           string  `json:"longName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// YahooSearchResponse mirrors the symbol search payload.
type YahooSearchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}
