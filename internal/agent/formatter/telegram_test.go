package formatter

import (
	"testing"

	"golang-finance-agent/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestRenderTelegramPrice(t *testing.T) {
	yield := 0.44
	text := RenderTelegram(entity.StockPrice{
		Ticker:   "AAPL",
		Price:    187.33,
		Currency: "USD",
		Info: &entity.StockInfo{
			Name:               "Apple Inc.",
			Sector:             "Technology",
			MarketCapFormatted: "$2900.00B",
			DividendYield:      &yield,
		},
	})

	assert.Contains(t, text, "*Apple Inc. (AAPL)*")
	assert.Contains(t, text, "💰 *Current Price:* $187.33 USD")
	assert.Contains(t, text, "📊 *Market Cap:* $2900.00B")
	assert.Contains(t, text, "💵 *Dividend Yield:* 0.44%")
}

func TestRenderTelegramChartCaption(t *testing.T) {
	sma := 182.4
	text := RenderTelegram(entity.StockChart{
		Ticker:      "AAPL",
		Period:      "6mo",
		LatestPrice: 187.33,
		SMA20:       &sma,
		Technical:   true,
	})

	assert.Contains(t, text, "*AAPL Technical Analysis* (6mo)")
	assert.Contains(t, text, "Latest: $187.33")
	assert.Contains(t, text, "SMA20: 182.40")
}

func TestRenderTelegramComparisonCaption(t *testing.T) {
	text := RenderTelegram(entity.StockComparison{
		Tickers:     []string{"AAPL", "MSFT"},
		Period:      "1y",
		Performance: map[string]float64{"AAPL": 12.5, "MSFT": -3.2},
	})

	assert.Contains(t, text, "*Performance Comparison* (1y)")
	assert.Contains(t, text, "🟢 *AAPL:* +12.50%")
	assert.Contains(t, text, "🔴 *MSFT:* -3.20%")
}

func TestRenderTelegramErrorPrefix(t *testing.T) {
	text := RenderTelegram(entity.ErrorResult{Message: "something broke"})
	assert.Equal(t, "⚠️ something broke", text)
}

func TestRenderTelegramDetailedReport(t *testing.T) {
	text := RenderTelegram(entity.SentimentReport{
		Sentiment:        "NEUTRAL",
		Confidence:       "Medium",
		Summary:          "Flat quarter.",
		MarketImpact:     "Limited",
		DetailedAnalysis: "Nothing notable.",
		Recommendations:  "Hold",
		Detailed:         true,
	})

	assert.Contains(t, text, "*Financial Market Analysis* ➡️")
	assert.Contains(t, text, "🎯 *Confidence:* Medium")
	assert.Contains(t, text, "💡 *Recommendations:*\nHold")
}
