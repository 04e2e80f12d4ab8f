package service

import (
	"strings"

	"golang-finance-agent/pkg/utils"
)

var comparisonKeywords = []string{"compare", "vs", "versus", "against", "which is better"}

var priceKeywords = []string{"stock price", "price of", "current price", "trading at", "what is the price"}

var chartKeywords = []string{"chart", "graph", "plot", "performance", "trend", "historical"}

var technicalKeywords = []string{"technical", "indicator", "sma", "ema"}

var reportIndicators = []string{
	"report", "analysis", "analyze", "sentiment", "impact", "effect",
	"market impact", "detailed", "what does this mean for", "how will this affect",
	"annual report", "earnings report", "quarterly report", "statement", "press release",
}

var influentialFigures = []string{
	"warren buffett", "elon musk", "jpmorgan", "goldman sachs", "federal reserve",
	"fed", "jerome powell", "ray dalio", "rakesh jhunjhunwala", "cathie wood",
	"janet yellen", "james simons", "peter lynch", "george soros", "carl icahn",
	"investors", "analysts",
}

type periodKeyword struct {
	Keyword string
	Period  string
}

// periodKeywords is ordered with compound phrases before the generic words
// they contain, so "3 month" resolves before "month" and "2 year" before
// "year".
var periodKeywords = []periodKeyword{
	{"24 hour", "1d"},
	{"today", "1d"},
	{"day", "1d"},
	{"week", "1wk"},
	{"3 month", "3mo"},
	{"quarter", "3mo"},
	{"6 month", "6mo"},
	{"12 month", "1y"},
	{"2 year", "2y"},
	{"5 year", "5y"},
	{"max", "max"},
	{"all time", "max"},
	{"all-time", "max"},
	{"month", "1mo"},
	{"year", "1y"},
}

// ParsePeriod maps period words in a lowercased query to a history range.
// Defaults to one year.
func ParsePeriod(queryLower string) string {
	for _, pk := range periodKeywords {
		if strings.Contains(queryLower, pk.Keyword) {
			return pk.Period
		}
	}
	return "1y"
}

// IsComparisonQuery reports whether the query asks to compare multiple
// stocks. It needs both a comparison keyword and more than one ticker.
func IsComparisonQuery(queryLower string, tickerCount int) bool {
	return tickerCount > 1 && utils.ContainsAny(queryLower, comparisonKeywords)
}

// IsPriceQuery reports whether the query asks for a current stock price.
func IsPriceQuery(queryLower string) bool {
	return utils.ContainsAny(queryLower, priceKeywords)
}

// IsChartQuery reports whether the query asks for a chart or trend view.
func IsChartQuery(queryLower string) bool {
	return utils.ContainsAny(queryLower, chartKeywords)
}

// IsTechnicalQuery reports whether a chart query asks for technical
// indicator overlays.
func IsTechnicalQuery(queryLower string) bool {
	return utils.ContainsAny(queryLower, technicalKeywords)
}

// IsReportQuery decides between the conversational and the detailed report
// rendering. A query qualifies when it carries a report indicator outright,
// or mentions an influential market figure together with a news reference.
func IsReportQuery(queryLower string) bool {
	isReport := utils.ContainsAny(queryLower, reportIndicators)
	mentionsFigure := utils.ContainsAny(queryLower, influentialFigures)
	hasNews := utils.ContainsAny(queryLower, []string{"news", "latest", "recent"})
	return (mentionsFigure && (hasNews || isReport)) || isReport
}
