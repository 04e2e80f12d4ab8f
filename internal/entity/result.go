package entity

// QueryResult is the tagged result of handling one query. Exactly one
// variant is produced per query; consumers switch exhaustively over the
// concrete types instead of probing optional fields.
type QueryResult interface {
	isQueryResult()
}

// Unrelated is returned when the relatedness gate rejects a query.
type Unrelated struct {
	Message string `json:"message"`
}

// SimpleAnswer is a canned factual answer that needed no external call.
type SimpleAnswer struct {
	Text string `json:"text"`
}

// StockInfo is descriptive data accompanying a price lookup. All fields are
// best-effort; a failed info fetch leaves it nil on the result.
type StockInfo struct {
	Name               string   `json:"name"`
	Sector             string   `json:"sector,omitempty"`
	MarketCapFormatted string   `json:"market_cap_formatted,omitempty"`
	PERatio            *float64 `json:"pe_ratio,omitempty"`
	DividendYield      *float64 `json:"dividend_yield,omitempty"`
}

// StockPrice is a current-price lookup result.
type StockPrice struct {
	Ticker   string     `json:"ticker"`
	Price    float64    `json:"price"`
	Currency string     `json:"currency"`
	Info     *StockInfo `json:"info,omitempty"`
}

// StockChart is a rendered single-instrument chart. SMA/EMA values are nil
// when the history is shorter than the averaging window.
type StockChart struct {
	Ticker      string   `json:"ticker"`
	Image       []byte   `json:"image"`
	Period      string   `json:"period"`
	LatestPrice float64  `json:"latest_price"`
	SMA20       *float64 `json:"sma20,omitempty"`
	SMA50       *float64 `json:"sma50,omitempty"`
	Technical   bool     `json:"technical"`
}

// StockComparison is a rendered multi-instrument comparison. Performance is
// the final percent change per ticker of the series normalized to 100.
type StockComparison struct {
	Tickers     []string           `json:"tickers"`
	Image       []byte             `json:"image"`
	Period      string             `json:"period"`
	Performance map[string]float64 `json:"performance"`
}

// SentimentReport is the six-section output of the sentiment analysis path.
type SentimentReport struct {
	Sentiment        string `json:"sentiment"`
	Confidence       string `json:"confidence"`
	MarketImpact     string `json:"market_impact"`
	DetailedAnalysis string `json:"detailed_analysis"`
	Summary          string `json:"summary"`
	Recommendations  string `json:"recommendations"`
	Detailed         bool   `json:"is_detailed"`
}

// ErrorResult is a user-facing degradation of any collaborator failure.
type ErrorResult struct {
	Message string `json:"message"`
}

func (Unrelated) isQueryResult()       {}
func (SimpleAnswer) isQueryResult()    {}
func (StockPrice) isQueryResult()      {}
func (StockChart) isQueryResult()      {}
func (StockComparison) isQueryResult() {}
func (SentimentReport) isQueryResult() {}
func (ErrorResult) isQueryResult()     {}
