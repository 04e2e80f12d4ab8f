package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"golang-finance-agent/internal/agent/dto"
	"golang-finance-agent/internal/agent/repository"
	"golang-finance-agent/internal/entity"
	"golang-finance-agent/pkg/logger"
)

const (
	unrelatedMessage = "I can only help you with finance, business, or market related queries."

	exchangeNameMessage = "Please provide a specific company ticker, not the exchange name (e.g., RELIANCE.NS, TCS.NS)."

	noInformationMessage = "I couldn't find any relevant information for your query. Please try rephrasing or ask about a more specific financial topic."

	// Comparison charts above this get unreadable.
	maxComparisonTickers = 5

	smaShortWindow = 20
	smaLongWindow  = 50
	emaSpan        = 20
)

// QueryAgent answers natural-language finance questions. Each call resolves
// follow-up references against the session, routes the query to the right
// data path, and updates the session context for the next turn.
type QueryAgent interface {
	HandleQuery(ctx context.Context, session *entity.Session, query string) entity.QueryResult
}

// NewQueryAgent creates a new query agent.
func NewQueryAgent(
	aiRepo repository.AIRepository,
	searchRepo repository.SearchRepository,
	marketRepo repository.MarketDataRepository,
	chartRepo repository.ChartRepository,
	log *logger.Logger,
) QueryAgent {
	return &queryAgent{
		aiRepo:     aiRepo,
		searchRepo: searchRepo,
		marketRepo: marketRepo,
		chartRepo:  chartRepo,
		logger:     log,
	}
}

type queryAgent struct {
	aiRepo     repository.AIRepository
	searchRepo repository.SearchRepository
	marketRepo repository.MarketDataRepository
	chartRepo  repository.ChartRepository
	logger     *logger.Logger
}

// HandleQuery runs a query through the full pipeline: follow-up resolution,
// the finance-relatedness gate, the stock data paths, canned answers, and
// finally web search plus sentiment analysis.
func (a *queryAgent) HandleQuery(ctx context.Context, session *entity.Session, query string) entity.QueryResult {
	session.Lock()
	defer session.Unlock()

	session.Context.LastQuery = query

	if IsFollowUp(query, &session.Context) {
		resolved := ResolveFollowUp(query, session.Context.LastEntity)
		a.logger.DebugContext(ctx, "Resolved follow-up query",
			logger.StringField("original", query),
			logger.StringField("resolved", resolved),
		)
		query = resolved
	}

	related, err := a.aiRepo.IsFinanceRelated(ctx, query)
	if err != nil {
		// Fail open: a model outage should degrade to answering, not
		// to refusing finance questions.
		a.logger.WarnContext(ctx, "Relatedness check failed, assuming finance-related", logger.ErrorField(err))
		related = true
	}
	if !related {
		return entity.Unrelated{Message: unrelatedMessage}
	}

	if result := a.handleStockQuery(ctx, session, query); result != nil {
		return result
	}

	if answer, ok := LookupSimpleAnswer(query); ok {
		UpdateFromSimpleQuery(&session.Context, query)
		return entity.SimpleAnswer{Text: answer}
	}

	return a.searchAndAnalyze(ctx, session, query)
}

// handleStockQuery covers the comparison, price, and chart paths. A nil
// return means the query is not a stock data query.
func (a *queryAgent) handleStockQuery(ctx context.Context, session *entity.Session, query string) entity.QueryResult {
	queryLower := strings.ToLower(query)
	tickers := ExtractTickers(query)

	// Comparison first: its keyword set overlaps the chart keywords.
	if IsComparisonQuery(queryLower, len(tickers)) {
		return a.handleComparison(ctx, queryLower, tickers)
	}

	if IsPriceQuery(queryLower) && len(tickers) > 0 {
		return a.handlePrice(ctx, tickers[0])
	}

	if IsChartQuery(queryLower) && len(tickers) > 0 {
		return a.handleChart(ctx, session, queryLower, tickers[0])
	}

	return nil
}

func (a *queryAgent) handleComparison(ctx context.Context, queryLower string, tickers []string) entity.QueryResult {
	if len(tickers) > maxComparisonTickers {
		tickers = tickers[:maxComparisonTickers]
	}
	period := ParsePeriod(queryLower)

	var series []dto.ComparisonSeries
	var used []string
	performance := make(map[string]float64, len(tickers))
	for _, ticker := range tickers {
		candles, err := a.marketRepo.GetHistory(ctx, ticker, period)
		if err != nil || len(candles) < 2 {
			a.logger.WarnContext(ctx, "Skipping ticker without history in comparison",
				logger.StringField("ticker", ticker),
				logger.ErrorField(err),
			)
			continue
		}

		s := dto.ComparisonSeries{Ticker: ticker}
		base := candles[0].Close
		for _, c := range candles {
			s.Dates = append(s.Dates, c.Date)
			s.Values = append(s.Values, c.Close/base*100)
		}
		s.FinalChange = round2(s.Values[len(s.Values)-1] - 100)
		series = append(series, s)
		used = append(used, ticker)
		performance[ticker] = s.FinalChange
	}

	if len(series) == 0 {
		return entity.ErrorResult{Message: "Sorry, I couldn't compare these stocks. No data found for the provided tickers"}
	}

	image, err := a.chartRepo.RenderComparisonChart(series)
	if err != nil {
		a.logger.ErrorContext(ctx, "Comparison chart render failed", logger.ErrorField(err))
		return entity.ErrorResult{Message: fmt.Sprintf("Sorry, I couldn't compare these stocks. %v", err)}
	}

	return entity.StockComparison{
		Tickers:     used,
		Image:       image,
		Period:      period,
		Performance: performance,
	}
}

func (a *queryAgent) handlePrice(ctx context.Context, ticker string) entity.QueryResult {
	if isExchangeName(ticker) {
		return entity.ErrorResult{Message: fmt.Sprintf("Sorry, I couldn't get the stock price for %s. %s", ticker, exchangeNameMessage)}
	}

	quote, err := a.marketRepo.GetQuote(ctx, ticker)
	if err != nil {
		a.logger.WarnContext(ctx, "Quote lookup failed", logger.StringField("ticker", ticker), logger.ErrorField(err))
		return entity.ErrorResult{Message: fmt.Sprintf("Sorry, I couldn't get the stock price for %s. %v", ticker, err)}
	}

	result := entity.StockPrice{
		Ticker:   ticker,
		Price:    round2(quote.Price),
		Currency: quote.Currency,
	}

	// Info failures degrade to a price-only answer.
	if info, err := a.marketRepo.GetInfo(ctx, ticker); err == nil {
		result.Info = buildStockInfo(ticker, info)
	} else {
		a.logger.DebugContext(ctx, "Info lookup failed", logger.StringField("ticker", ticker), logger.ErrorField(err))
	}

	return result
}

func (a *queryAgent) handleChart(ctx context.Context, session *entity.Session, queryLower, ticker string) entity.QueryResult {
	if isExchangeName(ticker) {
		return entity.ErrorResult{Message: fmt.Sprintf("Sorry, I couldn't generate a chart for %s. %s", ticker, exchangeNameMessage)}
	}

	period := ParsePeriod(queryLower)
	candles, err := a.marketRepo.GetHistory(ctx, ticker, period)
	if err != nil {
		return entity.ErrorResult{Message: fmt.Sprintf("Sorry, I couldn't generate a chart for %s. %v", ticker, err)}
	}
	if len(candles) < 2 {
		return entity.ErrorResult{Message: fmt.Sprintf("Sorry, I couldn't generate a chart for %s. No data found for ticker: %s", ticker, ticker)}
	}

	name, currency := ticker, "USD"
	if info, err := a.marketRepo.GetInfo(ctx, ticker); err == nil {
		if info.Name != "" {
			name = info.Name
		}
		if info.Currency != "" {
			currency = info.Currency
		}
	}

	result := entity.StockChart{
		Ticker:      ticker,
		Period:      period,
		LatestPrice: round2(candles[len(candles)-1].Close),
	}

	if IsTechnicalQuery(queryLower) {
		closes := make([]float64, len(candles))
		for i, c := range candles {
			closes[i] = c.Close
		}
		sma20 := SMASeries(closes, smaShortWindow)
		sma50 := SMASeries(closes, smaLongWindow)
		ema20 := EMASeries(closes, emaSpan)

		image, err := a.chartRepo.RenderTechnicalChart(ticker, name, currency, period, candles, sma20, sma50, ema20)
		if err != nil {
			a.logger.ErrorContext(ctx, "Technical chart render failed", logger.StringField("ticker", ticker), logger.ErrorField(err))
			return entity.ErrorResult{Message: fmt.Sprintf("Sorry, I couldn't generate a chart for %s. %v", ticker, err)}
		}
		result.Image = image
		result.Technical = true
		result.SMA20 = roundPtr(sma20[len(sma20)-1])
		result.SMA50 = roundPtr(sma50[len(sma50)-1])
	} else {
		image, err := a.chartRepo.RenderPriceChart(ticker, name, currency, period, candles)
		if err != nil {
			a.logger.ErrorContext(ctx, "Price chart render failed", logger.StringField("ticker", ticker), logger.ErrorField(err))
			return entity.ErrorResult{Message: fmt.Sprintf("Sorry, I couldn't generate a chart for %s. %v", ticker, err)}
		}
		result.Image = image
	}

	session.Context.LastEntity = ticker
	session.Context.LastTopic = entity.TopicStock
	return result
}

// searchAndAnalyze is the fallback path: consolidate web search results and
// run sentiment analysis over them. This is the only path that appends to
// conversation history.
func (a *queryAgent) searchAndAnalyze(ctx context.Context, session *entity.Session, query string) entity.QueryResult {
	detailed := IsReportQuery(strings.ToLower(query))

	a.logger.InfoContext(ctx, "Searching the web", logger.StringField("query", query))
	consolidated, err := a.searchRepo.SearchAndConsolidate(ctx, query)
	if err != nil || consolidated == "" {
		a.logger.WarnContext(ctx, "Search produced no usable results", logger.ErrorField(err))
		return entity.ErrorResult{Message: noInformationMessage}
	}

	sections, err := a.aiRepo.AnalyzeSentiment(ctx, consolidated, query)
	if err != nil {
		a.logger.ErrorContext(ctx, "Sentiment analysis failed", logger.ErrorField(err))
		return entity.ErrorResult{Message: fmt.Sprintf("An error occurred while processing your query: %v", err)}
	}
	a.logger.InfoContext(ctx, "Analysis complete", logger.StringField("sentiment", sections.Sentiment))

	UpdateFromEntities(&session.Context, query)

	session.AppendHistory(entity.HistoryEntry{
		Query:    query,
		Response: sections.Summary,
		Entities: session.Context.LastEntity,
		At:       time.Now(),
	})

	return entity.SentimentReport{
		Sentiment:        sections.Sentiment,
		Confidence:       sections.Confidence,
		MarketImpact:     sections.MarketImpact,
		DetailedAnalysis: sections.DetailedAnalysis,
		Summary:          sections.Summary,
		Recommendations:  sections.Recommendations,
		Detailed:         detailed,
	}
}

func buildStockInfo(ticker string, info *dto.StockInfo) *entity.StockInfo {
	out := &entity.StockInfo{
		Name:    info.Name,
		Sector:  info.Sector,
		PERatio: info.PERatio,
	}
	if out.Name == "" {
		out.Name = ticker
	}
	out.MarketCapFormatted = FormatMarketCap(info.MarketCap)
	if info.DividendYield != nil {
		pct := round2(*info.DividendYield * 100)
		out.DividendYield = &pct
	}
	return out
}

// FormatMarketCap renders a market cap in billions or millions of dollars.
func FormatMarketCap(marketCap int64) string {
	if marketCap <= 0 {
		return ""
	}
	if marketCap > 1_000_000_000 {
		return fmt.Sprintf("$%.2fB", float64(marketCap)/1_000_000_000)
	}
	return fmt.Sprintf("$%.2fM", float64(marketCap)/1_000_000)
}

func isExchangeName(ticker string) bool {
	upper := strings.ToUpper(ticker)
	return upper == "NSE" || upper == "BSE"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round2(*v)
	return &r
}
