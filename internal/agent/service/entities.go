package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang-finance-agent/internal/entity"
)

var dollarTickerRe = regexp.MustCompile(`\$([A-Z]{1,5})`)

const tickerTrimCutset = ".,?!()[]{}"

type tickerAlias struct {
	Name   string
	Ticker string
}

// tickerAliases maps well-known company names to their tickers. Order
// matters: aliases are matched by substring in this order, so extraction
// stays deterministic.
var tickerAliases = []tickerAlias{
	// US stocks
	{"apple", "AAPL"},
	{"microsoft", "MSFT"},
	{"amazon", "AMZN"},
	{"google", "GOOGL"},
	{"alphabet", "GOOGL"},
	{"facebook", "META"},
	{"meta", "META"},
	{"tesla", "TSLA"},
	{"netflix", "NFLX"},
	{"nvidia", "NVDA"},
	{"walmart", "WMT"},
	{"disney", "DIS"},
	{"coca cola", "KO"},
	{"coca-cola", "KO"},
	{"coke", "KO"},
	{"ibm", "IBM"},
	{"intel", "INTC"},
	{"alibaba", "BABA"},
	{"amd", "AMD"},
	{"nike", "NKE"},
	{"jp morgan", "JPM"},
	{"jpmorgan", "JPM"},
	{"bank of america", "BAC"},
	{"goldman sachs", "GS"},
	{"pfizer", "PFE"},
	{"johnson & johnson", "JNJ"},
	// Indian stocks
	{"reliance", "RELIANCE.NS"},
	{"tcs", "TCS.NS"},
	{"hdfc bank", "HDFCBANK.NS"},
	{"hdfc", "HDFCBANK.NS"},
	{"infosys", "INFY.NS"},
	{"icici bank", "ICICIBANK.NS"},
	{"icici", "ICICIBANK.NS"},
	{"hul", "HINDUNILVR.NS"},
	{"hindustan unilever", "HINDUNILVR.NS"},
	{"unilever", "HINDUNILVR.NS"},
	{"sbi", "SBIN.NS"},
	{"state bank", "SBIN.NS"},
	{"bharti airtel", "BHARTIARTL.NS"},
	{"airtel", "BHARTIARTL.NS"},
	{"asian paints", "ASIANPAINT.NS"},
	{"asianpaints", "ASIANPAINT.NS"},
	{"kotak bank", "KOTAKBANK.NS"},
	{"kotak", "KOTAKBANK.NS"},
	{"lt", "LT.NS"},
	{"larsen", "LT.NS"},
	{"larsen & toubro", "LT.NS"},
	{"hcl tech", "HCLTECH.NS"},
	{"hcl", "HCLTECH.NS"},
	{"wipro", "WIPRO.NS"},
	{"axis bank", "AXISBANK.NS"},
	{"axis", "AXISBANK.NS"},
	{"maruti", "MARUTI.NS"},
	{"maruti suzuki", "MARUTI.NS"},
	{"sun pharma", "SUNPHARMA.NS"},
	{"sunpharma", "SUNPHARMA.NS"},
	{"titan", "TITAN.NS"},
	{"titan company", "TITAN.NS"},
	{"bajaj finance", "BAJFINANCE.NS"},
	{"bajajfinance", "BAJFINANCE.NS"},
	{"bajaj auto", "BAJAJ-AUTO.NS"},
	{"bajajauto", "BAJAJ-AUTO.NS"},
	{"mahindra", "M&M.NS"},
	{"mahindra & mahindra", "M&M.NS"},
	{"ultra tech", "ULTRACEMCO.NS"},
	{"ultratech", "ULTRACEMCO.NS"},
	{"ultracemco", "ULTRACEMCO.NS"},
	{"nestle", "NESTLEIND.NS"},
	{"nestle india", "NESTLEIND.NS"},
	{"tata steel", "TATASTEEL.NS"},
	{"tatasteel", "TATASTEEL.NS"},
	{"tata motors", "TATAMOTORS.NS"},
	{"tatamotors", "TATAMOTORS.NS"},
	{"tata consultancy", "TCS.NS"},
	{"tata consult", "TCS.NS"},
	{"adani ports", "ADANIPORTS.NS"},
	{"adaniports", "ADANIPORTS.NS"},
	{"adani green", "ADANIGREEN.NS"},
	{"adanigreen", "ADANIGREEN.NS"},
	{"adani enterprises", "ADANIENT.NS"},
	{"adanient", "ADANIENT.NS"},
	{"adani power", "ADANIPOWER.NS"},
	{"adanipower", "ADANIPOWER.NS"},
	{"adani transmission", "ADANITRANS.NS"},
	{"adanitrans", "ADANITRANS.NS"},
	{"adani total gas", "ATGL.NS"},
	{"atgl", "ATGL.NS"},
	{"adani wilmar", "AWL.NS"},
	{"awl", "AWL.NS"},
}

// knownCompanies are matched case-insensitively when tracking conversation
// context.
var knownCompanies = []string{
	"Apple", "Microsoft", "Amazon", "Google", "Alphabet", "Facebook", "Meta",
	"Tesla", "Netflix", "Nvidia", "Walmart", "Disney", "Coca-Cola", "IBM",
	"Intel", "Alibaba", "AMD", "Nike", "JP Morgan", "Bank of America",
	"Goldman Sachs", "Pfizer", "Johnson & Johnson",
}

var knownPersons = []string{
	"Elon Musk", "Warren Buffett", "Jeff Bezos", "Mark Zuckerberg",
	"Tim Cook", "Satya Nadella", "Jerome Powell", "Janet Yellen",
	"Ray Dalio", "Cathie Wood", "Peter Lynch", "George Soros",
}

// ExtractTickers pulls candidate tickers from a query. Conjunctions are
// normalized to commas so multi-ticker queries split into parts; each part
// then contributes $SYMBOL matches, short all-caps words, and alias hits.
// Duplicates are removed with order preserved.
func ExtractTickers(query string) []string {
	normalized := query
	for _, conj := range []string{" and ", " vs ", " versus ", " or "} {
		normalized = strings.ReplaceAll(normalized, conj, ",")
	}

	var tickers []string
	for _, part := range strings.Split(normalized, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		for _, match := range dollarTickerRe.FindAllStringSubmatch(part, -1) {
			tickers = append(tickers, match[1])
		}

		for _, word := range strings.Fields(part) {
			trimmed := strings.Trim(word, tickerTrimCutset)
			if isTickerCandidate(trimmed) {
				tickers = append(tickers, trimmed)
			}
		}

		partLower := strings.ToLower(part)
		for _, alias := range tickerAliases {
			if strings.Contains(partLower, alias.Name) {
				tickers = append(tickers, alias.Ticker)
			}
		}
	}

	return dedupeStrings(tickers)
}

// DetectEntity finds the most specific entity a query mentions: a ticker,
// then a known company, then a known person.
func DetectEntity(query string) (string, entity.Topic) {
	if tickers := ExtractTickers(query); len(tickers) > 0 {
		return tickers[0], entity.TopicStock
	}

	queryLower := strings.ToLower(query)
	for _, company := range knownCompanies {
		if strings.Contains(queryLower, strings.ToLower(company)) {
			return company, entity.TopicCompany
		}
	}
	for _, person := range knownPersons {
		if strings.Contains(queryLower, strings.ToLower(person)) {
			return person, entity.TopicPerson
		}
	}

	return "", entity.TopicNone
}

// isTickerCandidate reports whether a word looks like a bare ticker symbol:
// 1-5 characters, at least one uppercase letter, no lowercase letters.
// Symbols like "M&M" qualify.
func isTickerCandidate(word string) bool {
	if len(word) < 1 || len(word) > 5 {
		return false
	}
	hasUpper := false
	for _, r := range word {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
