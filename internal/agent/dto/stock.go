package dto

import "time"

// Quote is the latest traded price of an instrument.
type Quote struct {
	Ticker   string    `json:"ticker"`
	Price    float64   `json:"price"`
	Currency string    `json:"currency"`
	Time     time.Time `json:"time"`
}

// StockInfo is raw descriptive data about an instrument.
type StockInfo struct {
	Name          string   `json:"name"`
	Sector        string   `json:"sector"`
	Industry      string   `json:"industry"`
	MarketCap     int64    `json:"market_cap"`
	PERatio       *float64 `json:"pe_ratio,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	Currency      string   `json:"currency"`
}

// Candle is one OHLCV sample of a price history.
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// ComparisonSeries is one instrument's price series normalized to a base of
// 100 at its first available sample.
type ComparisonSeries struct {
	Ticker      string      `json:"ticker"`
	Dates       []time.Time `json:"dates"`
	Values      []float64   `json:"values"`
	FinalChange float64     `json:"final_change"`
}
