package repository

import (
	"context"

	"golang-finance-agent/internal/agent/dto"
)

// AIRepository is the language-model collaborator. Replies are free-form
// text; both call sites tolerate any shape.
type AIRepository interface {
	IsFinanceRelated(ctx context.Context, query string) (bool, error)
	AnalyzeSentiment(ctx context.Context, consolidated, query string) (*dto.SentimentSections, error)
}

// SearchRepository is the web search collaborator.
type SearchRepository interface {
	Search(ctx context.Context, query string, maxResults int) ([]dto.SearchResult, error)
	FetchPageText(ctx context.Context, url string) (string, error)
	SearchAndConsolidate(ctx context.Context, userQuery string) (string, error)
}

// MarketDataRepository is the stock market data collaborator.
type MarketDataRepository interface {
	GetQuote(ctx context.Context, ticker string) (*dto.Quote, error)
	GetInfo(ctx context.Context, ticker string) (*dto.StockInfo, error)
	GetHistory(ctx context.Context, ticker, period string) ([]dto.Candle, error)
}

// ChartRepository renders numeric series into PNG images.
type ChartRepository interface {
	RenderPriceChart(ticker, name, currency, period string, candles []dto.Candle) ([]byte, error)
	RenderTechnicalChart(ticker, name, currency, period string, candles []dto.Candle, sma20, sma50, ema20 []*float64) ([]byte, error)
	RenderComparisonChart(series []dto.ComparisonSeries) ([]byte, error)
}
