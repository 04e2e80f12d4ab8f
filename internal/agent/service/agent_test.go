package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang-finance-agent/internal/agent/dto"
	"golang-finance-agent/internal/entity"
	"golang-finance-agent/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAIRepo struct {
	related    bool
	relatedErr error
	sections   *dto.SentimentSections
	analyzeErr error

	relatedCalls int
	analyzeCalls int
}

func (f *fakeAIRepo) IsFinanceRelated(_ context.Context, _ string) (bool, error) {
	f.relatedCalls++
	return f.related, f.relatedErr
}

func (f *fakeAIRepo) AnalyzeSentiment(_ context.Context, _, _ string) (*dto.SentimentSections, error) {
	f.analyzeCalls++
	return f.sections, f.analyzeErr
}

type fakeSearchRepo struct {
	consolidated string
	err          error
	calls        int
}

func (f *fakeSearchRepo) Search(_ context.Context, _ string, _ int) ([]dto.SearchResult, error) {
	return nil, nil
}

func (f *fakeSearchRepo) FetchPageText(_ context.Context, _ string) (string, error) {
	return "", nil
}

func (f *fakeSearchRepo) SearchAndConsolidate(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.consolidated, f.err
}

type fakeMarketRepo struct {
	quotes     map[string]*dto.Quote
	infos      map[string]*dto.StockInfo
	history    map[string][]dto.Candle
	historyErr map[string]error

	quoteCalls   []string
	historyCalls []string
}

func (f *fakeMarketRepo) GetQuote(_ context.Context, ticker string) (*dto.Quote, error) {
	f.quoteCalls = append(f.quoteCalls, ticker)
	q, ok := f.quotes[ticker]
	if !ok {
		return nil, fmt.Errorf("no price data found for ticker %s", ticker)
	}
	return q, nil
}

func (f *fakeMarketRepo) GetInfo(_ context.Context, ticker string) (*dto.StockInfo, error) {
	info, ok := f.infos[ticker]
	if !ok {
		return nil, fmt.Errorf("no info found for ticker %s", ticker)
	}
	return info, nil
}

func (f *fakeMarketRepo) GetHistory(_ context.Context, ticker, _ string) ([]dto.Candle, error) {
	f.historyCalls = append(f.historyCalls, ticker)
	if err, ok := f.historyErr[ticker]; ok {
		return nil, err
	}
	return f.history[ticker], nil
}

type fakeChartRepo struct{}

func (fakeChartRepo) RenderPriceChart(_, _, _, _ string, _ []dto.Candle) ([]byte, error) {
	return []byte("png"), nil
}

func (fakeChartRepo) RenderTechnicalChart(_, _, _, _ string, _ []dto.Candle, _, _, _ []*float64) ([]byte, error) {
	return []byte("png"), nil
}

func (fakeChartRepo) RenderComparisonChart(_ []dto.ComparisonSeries) ([]byte, error) {
	return []byte("png"), nil
}

func makeCandles(n int, start, step float64) []dto.Candle {
	candles := make([]dto.Candle, n)
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		candles[i] = dto.Candle{
			Date:   day.AddDate(0, 0, i),
			Close:  start + float64(i)*step,
			Volume: 1000,
		}
	}
	return candles
}

func newTestAgent(ai *fakeAIRepo, search *fakeSearchRepo, market *fakeMarketRepo) QueryAgent {
	return NewQueryAgent(ai, search, market, fakeChartRepo{}, logger.NewNop())
}

func defaultSections() *dto.SentimentSections {
	return &dto.SentimentSections{
		Sentiment:        "POSITIVE",
		Confidence:       "High",
		MarketImpact:     "Broad upside",
		DetailedAnalysis: "Detail",
		Summary:          "Things look good",
		Recommendations:  "- Hold",
	}
}

func TestHandleQueryUnrelated(t *testing.T) {
	ai := &fakeAIRepo{related: false}
	search := &fakeSearchRepo{}
	agent := newTestAgent(ai, search, &fakeMarketRepo{})
	session := entity.NewSession("s1")

	result := agent.HandleQuery(context.Background(), session, "best pasta recipe")

	unrelated, ok := result.(entity.Unrelated)
	require.True(t, ok)
	assert.Equal(t, unrelatedMessage, unrelated.Message)
	assert.Zero(t, search.calls)
}

func TestHandleQueryRelatednessFailsOpen(t *testing.T) {
	ai := &fakeAIRepo{relatedErr: errors.New("model down")}
	market := &fakeMarketRepo{
		quotes: map[string]*dto.Quote{"AAPL": {Ticker: "AAPL", Price: 123.456, Currency: "USD"}},
	}
	agent := newTestAgent(ai, &fakeSearchRepo{}, market)
	session := entity.NewSession("s1")

	result := agent.HandleQuery(context.Background(), session, "what is the stock price of apple")

	price, ok := result.(entity.StockPrice)
	require.True(t, ok)
	assert.Equal(t, "AAPL", price.Ticker)
}

func TestHandleQueryPriceWithInfo(t *testing.T) {
	pe := 30.5
	yield := 0.0044
	ai := &fakeAIRepo{related: true}
	market := &fakeMarketRepo{
		quotes: map[string]*dto.Quote{"AAPL": {Ticker: "AAPL", Price: 123.456, Currency: "USD"}},
		infos: map[string]*dto.StockInfo{"AAPL": {
			Name:          "Apple Inc.",
			Sector:        "Technology",
			MarketCap:     3_000_000_000_000,
			PERatio:       &pe,
			DividendYield: &yield,
		}},
	}
	agent := newTestAgent(ai, &fakeSearchRepo{}, market)
	session := entity.NewSession("s1")

	result := agent.HandleQuery(context.Background(), session, "what is the stock price of apple")

	price, ok := result.(entity.StockPrice)
	require.True(t, ok)
	assert.Equal(t, 123.46, price.Price)
	require.NotNil(t, price.Info)
	assert.Equal(t, "Apple Inc.", price.Info.Name)
	assert.Equal(t, "$3000.00B", price.Info.MarketCapFormatted)
	require.NotNil(t, price.Info.DividendYield)
	assert.Equal(t, 0.44, *price.Info.DividendYield)
}

func TestHandleQueryRejectsExchangeNameWithoutMarketCall(t *testing.T) {
	ai := &fakeAIRepo{related: true}
	market := &fakeMarketRepo{}
	agent := newTestAgent(ai, &fakeSearchRepo{}, market)
	session := entity.NewSession("s1")

	result := agent.HandleQuery(context.Background(), session, "what is the stock price of NSE")

	errResult, ok := result.(entity.ErrorResult)
	require.True(t, ok)
	assert.Contains(t, errResult.Message, "not the exchange name")
	assert.Empty(t, market.quoteCalls)
}

func TestHandleQueryChartUpdatesContext(t *testing.T) {
	ai := &fakeAIRepo{related: true}
	market := &fakeMarketRepo{
		history: map[string][]dto.Candle{"MSFT": makeCandles(30, 100, 1)},
		infos:   map[string]*dto.StockInfo{"MSFT": {Name: "Microsoft Corporation", Currency: "USD"}},
	}
	agent := newTestAgent(ai, &fakeSearchRepo{}, market)
	session := entity.NewSession("s1")

	result := agent.HandleQuery(context.Background(), session, "show me a chart for MSFT")

	chart, ok := result.(entity.StockChart)
	require.True(t, ok)
	assert.Equal(t, "MSFT", chart.Ticker)
	assert.False(t, chart.Technical)
	assert.Equal(t, 129.0, chart.LatestPrice)
	assert.Equal(t, "MSFT", session.Context.LastEntity)
	assert.Equal(t, entity.TopicStock, session.Context.LastTopic)
}

func TestHandleQueryTechnicalChartIndicators(t *testing.T) {
	ai := &fakeAIRepo{related: true}
	market := &fakeMarketRepo{
		history: map[string][]dto.Candle{"MSFT": makeCandles(25, 100, 1)},
	}
	agent := newTestAgent(ai, &fakeSearchRepo{}, market)
	session := entity.NewSession("s1")

	result := agent.HandleQuery(context.Background(), session, "show me a technical chart for MSFT")

	chart, ok := result.(entity.StockChart)
	require.True(t, ok)
	assert.True(t, chart.Technical)
	require.NotNil(t, chart.SMA20)
	// 25 candles cannot fill a 50-day window
	assert.Nil(t, chart.SMA50)
}

func TestHandleQueryComparisonSkipsMissingData(t *testing.T) {
	ai := &fakeAIRepo{related: true}
	market := &fakeMarketRepo{
		history: map[string][]dto.Candle{
			"AAPL": makeCandles(10, 100, 1), // ends at 109 -> +9%
			"MSFT": makeCandles(10, 200, -2),
		},
		historyErr: map[string]error{"GOOGL": errors.New("not found")},
	}
	agent := newTestAgent(ai, &fakeSearchRepo{}, market)
	session := entity.NewSession("s1")

	result := agent.HandleQuery(context.Background(), session, "compare AAPL vs MSFT vs GOOGL")

	comparison, ok := result.(entity.StockComparison)
	require.True(t, ok)
	assert.Equal(t, []string{"AAPL", "MSFT"}, comparison.Tickers)
	assert.InDelta(t, 9.0, comparison.Performance["AAPL"], 0.001)
	assert.InDelta(t, -9.0, comparison.Performance["MSFT"], 0.001)
}

func TestHandleQueryComparisonCapsTickers(t *testing.T) {
	ai := &fakeAIRepo{related: true}
	market := &fakeMarketRepo{history: map[string][]dto.Candle{}}
	agent := newTestAgent(ai, &fakeSearchRepo{}, market)
	session := entity.NewSession("s1")

	agent.HandleQuery(context.Background(), session, "compare AA and BB and CC and DD and EE and FF")

	assert.Len(t, market.historyCalls, maxComparisonTickers)
}

func TestHandleQueryComparisonNoData(t *testing.T) {
	ai := &fakeAIRepo{related: true}
	market := &fakeMarketRepo{historyErr: map[string]error{
		"AAPL": errors.New("x"),
		"MSFT": errors.New("x"),
	}}
	agent := newTestAgent(ai, &fakeSearchRepo{}, market)
	session := entity.NewSession("s1")

	result := agent.HandleQuery(context.Background(), session, "compare AAPL vs MSFT")

	errResult, ok := result.(entity.ErrorResult)
	require.True(t, ok)
	assert.Contains(t, errResult.Message, "couldn't compare these stocks")
}

func TestHandleQuerySimpleAnswer(t *testing.T) {
	ai := &fakeAIRepo{related: true}
	search := &fakeSearchRepo{}
	agent := newTestAgent(ai, search, &fakeMarketRepo{})
	session := entity.NewSession("s1")

	result := agent.HandleQuery(context.Background(), session, "what is the ticker for tesla")

	answer, ok := result.(entity.SimpleAnswer)
	require.True(t, ok)
	assert.Equal(t, "Tesla Inc.'s stock ticker is TSLA.", answer.Text)
	assert.Equal(t, "TSLA", session.Context.LastEntity)
	assert.Zero(t, search.calls)
}

func TestHandleQuerySearchAndAnalyze(t *testing.T) {
	ai := &fakeAIRepo{related: true, sections: defaultSections()}
	search := &fakeSearchRepo{consolidated: "SEARCH QUERY: x\n\nSOURCE 1: y"}
	agent := newTestAgent(ai, search, &fakeMarketRepo{})
	session := entity.NewSession("s1")

	result := agent.HandleQuery(context.Background(), session, "analyze the latest news about apple")

	report, ok := result.(entity.SentimentReport)
	require.True(t, ok)
	assert.True(t, report.Detailed)
	assert.Equal(t, "POSITIVE", report.Sentiment)

	require.Len(t, session.History, 1)
	assert.Equal(t, "Things look good", session.History[0].Response)
	assert.Equal(t, "AAPL", session.Context.LastEntity)
}

func TestHandleQuerySearchFailure(t *testing.T) {
	ai := &fakeAIRepo{related: true}
	search := &fakeSearchRepo{err: errors.New("no search results found")}
	agent := newTestAgent(ai, search, &fakeMarketRepo{})
	session := entity.NewSession("s1")

	result := agent.HandleQuery(context.Background(), session, "obscure finance question nobody asked")

	errResult, ok := result.(entity.ErrorResult)
	require.True(t, ok)
	assert.Equal(t, noInformationMessage, errResult.Message)
	assert.Empty(t, session.History)
}

func TestHandleQueryAnalysisFailure(t *testing.T) {
	ai := &fakeAIRepo{related: true, analyzeErr: errors.New("quota exceeded")}
	search := &fakeSearchRepo{consolidated: "SOURCE 1: y"}
	agent := newTestAgent(ai, search, &fakeMarketRepo{})
	session := entity.NewSession("s1")

	result := agent.HandleQuery(context.Background(), session, "thoughts on the bond market outlook")

	errResult, ok := result.(entity.ErrorResult)
	require.True(t, ok)
	assert.Contains(t, errResult.Message, "An error occurred while processing your query")
}

func TestHandleQueryFollowUpResolution(t *testing.T) {
	ai := &fakeAIRepo{related: true, sections: defaultSections()}
	search := &fakeSearchRepo{consolidated: "SOURCE 1: y"}
	agent := newTestAgent(ai, search, &fakeMarketRepo{})

	session := entity.NewSession("s1")
	session.Context.LastEntity = "Tesla"
	session.Context.LastTopic = entity.TopicCompany

	result := agent.HandleQuery(context.Background(), session, "analyze what they announced recently")

	_, ok := result.(entity.SentimentReport)
	require.True(t, ok)
	require.Len(t, session.History, 1)
	assert.Contains(t, session.History[0].Query, "Tesla")
}
