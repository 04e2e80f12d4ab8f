package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-finance-agent/internal/agent/config"
	"golang-finance-agent/internal/agent/dto"
	"golang-finance-agent/pkg/logger"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// yahooRangeByPeriod maps the classifier periods onto Yahoo Finance ranges.
var yahooRangeByPeriod = map[string]string{
	"1d":  "1d",
	"1wk": "5d",
	"1mo": "1mo",
	"3mo": "3mo",
	"6mo": "6mo",
	"1y":  "1y",
	"2y":  "2y",
	"5y":  "5y",
	"max": "max",
}

// yahooFinanceRepository implements MarketDataRepository against the Yahoo
// Finance v8/v10 JSON endpoints.
type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	client         *http.Client
	requestLimiter *rate.Limiter
	quoteCache     *cache.Cache
}

// NewYahooFinanceRepository creates a new instance of yahooFinanceRepository.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) (MarketDataRepository, error) {
	if cfg.YahooFinance.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("yahoo finance max_request_per_minute must be positive")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	ttl := cfg.YahooFinance.QuoteCacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		quoteCache:     cache.New(ttl, 2*ttl),
	}, nil
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				ShortName string `json:"shortName"`
				Currency  string `json:"currency"`
				MarketCap struct {
					Raw int64 `json:"raw"`
				} `json:"marketCap"`
			} `json:"price"`
			SummaryProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"summaryProfile"`
			SummaryDetail struct {
				TrailingPE struct {
					Raw *float64 `json:"raw"`
				} `json:"trailingPE"`
				DividendYield struct {
					Raw *float64 `json:"raw"`
				} `json:"dividendYield"`
			} `json:"summaryDetail"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// GetQuote fetches the latest traded price and currency for a ticker.
func (r *yahooFinanceRepository) GetQuote(ctx context.Context, ticker string) (*dto.Quote, error) {
	cacheKey := "quote:" + ticker
	if cached, found := r.quoteCache.Get(cacheKey); found {
		return cached.(*dto.Quote), nil
	}

	parsed, err := r.fetchChart(ctx, ticker, "1d")
	if err != nil {
		return nil, err
	}

	result := parsed.Chart.Result[0]
	if result.Meta.RegularMarketPrice == 0 {
		return nil, fmt.Errorf("no price data found for ticker %s", ticker)
	}

	quote := &dto.Quote{
		Ticker:   ticker,
		Price:    result.Meta.RegularMarketPrice,
		Currency: currencyOrDefault(result.Meta.Currency),
		Time:     time.Now(),
	}
	r.quoteCache.Set(cacheKey, quote, cache.DefaultExpiration)
	return quote, nil
}

// GetInfo fetches descriptive data (name, sector, market cap, ratios).
func (r *yahooFinanceRepository) GetInfo(ctx context.Context, ticker string) (*dto.StockInfo, error) {
	cacheKey := "info:" + ticker
	if cached, found := r.quoteCache.Get(cacheKey); found {
		return cached.(*dto.StockInfo), nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price,summaryProfile,summaryDetail", r.cfg.YahooFinance.BaseURL, ticker)
	body, err := r.sendRequest(ctx, apiURL)
	if err != nil {
		return nil, err
	}

	var parsed quoteSummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode quote summary response: %w", err)
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no info found for ticker %s", ticker)
	}

	result := parsed.QuoteSummary.Result[0]
	info := &dto.StockInfo{
		Name:          result.Price.ShortName,
		Sector:        result.SummaryProfile.Sector,
		Industry:      result.SummaryProfile.Industry,
		MarketCap:     result.Price.MarketCap.Raw,
		PERatio:       result.SummaryDetail.TrailingPE.Raw,
		DividendYield: result.SummaryDetail.DividendYield.Raw,
		Currency:      currencyOrDefault(result.Price.Currency),
	}
	if info.Name == "" {
		info.Name = ticker
	}
	r.quoteCache.Set(cacheKey, info, cache.DefaultExpiration)
	return info, nil
}

// GetHistory fetches daily OHLCV candles for the given period. Samples with
// a null close are skipped.
func (r *yahooFinanceRepository) GetHistory(ctx context.Context, ticker, period string) ([]dto.Candle, error) {
	yahooRange, ok := yahooRangeByPeriod[period]
	if !ok {
		yahooRange = "1y"
	}

	parsed, err := r.fetchChart(ctx, ticker, yahooRange)
	if err != nil {
		return nil, err
	}

	result := parsed.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, nil
	}

	quote := result.Indicators.Quote[0]
	candles := make([]dto.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		candle := dto.Candle{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			candle.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			candle.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			candle.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			candle.Volume = *quote.Volume[i]
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

func (r *yahooFinanceRepository) fetchChart(ctx context.Context, ticker, yahooRange string) (*chartResponse, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d", r.cfg.YahooFinance.BaseURL, ticker, yahooRange)
	body, err := r.sendRequest(ctx, apiURL)
	if err != nil {
		return nil, err
	}

	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("market data error for %s: %s", ticker, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("no market data found for ticker %s", ticker)
	}

	return &parsed, nil
}

func (r *yahooFinanceRepository) sendRequest(ctx context.Context, apiURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create market data request: %w", err)
	}
	req.Header.Set("User-Agent", searchUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Error("Failed to send request to Yahoo Finance API", logger.ErrorField(err), logger.StringField("url", apiURL))
		return nil, fmt.Errorf("failed to send request to Yahoo Finance API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.Error("Received non-OK response from Yahoo Finance API", logger.IntField("status_code", resp.StatusCode), logger.StringField("url", apiURL))
		return nil, fmt.Errorf("received non-OK response from Yahoo Finance API: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return "USD"
	}
	return currency
}
