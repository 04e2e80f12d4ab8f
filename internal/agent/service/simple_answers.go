package service

import "strings"

type simpleAnswer struct {
	Keywords []string
	Answer   string
}

// simpleAnswers are canned replies for factual lookups that need neither
// market data nor a web search. All keywords of an entry must match.
var simpleAnswers = []simpleAnswer{
	{[]string{"ticker", "apple"}, "Apple Inc.'s stock ticker is AAPL."},
	{[]string{"ticker", "microsoft"}, "Microsoft Corporation's stock ticker is MSFT."},
	{[]string{"ticker", "google"}, "Alphabet Inc.'s (Google's parent company) stock tickers are GOOGL and GOOG."},
	{[]string{"ticker", "amazon"}, "Amazon.com Inc.'s stock ticker is AMZN."},
	{[]string{"ticker", "tesla"}, "Tesla Inc.'s stock ticker is TSLA."},
	{
		[]string{"what is market cap"},
		"Market capitalization (market cap) is the total value of a company's outstanding shares of stock, calculated by multiplying the stock's price by the total number of shares outstanding.",
	},
	{
		[]string{"what is market capitalization"},
		"Market capitalization (market cap) is the total value of a company's outstanding shares of stock, calculated by multiplying the stock's price by the total number of shares outstanding.",
	},
	{
		[]string{"what is p/e ratio"},
		"The price-to-earnings (P/E) ratio is a valuation metric that compares a company's stock price to its earnings per share (EPS). It indicates how much investors are willing to pay for each dollar of earnings.",
	},
}

// LookupSimpleAnswer returns a canned answer for the query, if one applies.
func LookupSimpleAnswer(query string) (string, bool) {
	queryLower := strings.ToLower(query)
	for _, sa := range simpleAnswers {
		matched := true
		for _, kw := range sa.Keywords {
			if !strings.Contains(queryLower, kw) {
				matched = false
				break
			}
		}
		if matched {
			return sa.Answer, true
		}
	}
	return "", false
}
