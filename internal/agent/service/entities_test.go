package service

import (
	"testing"

	"golang-finance-agent/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestExtractTickersDollarSymbol(t *testing.T) {
	assert.Equal(t, []string{"AAPL"}, ExtractTickers("what do you think of $AAPL today?"))
}

func TestExtractTickersAllCapsWord(t *testing.T) {
	tickers := ExtractTickers("show me a chart for MSFT please")
	assert.Equal(t, []string{"MSFT"}, tickers)
}

func TestExtractTickersStripsPunctuation(t *testing.T) {
	tickers := ExtractTickers("what about (TSLA)?")
	assert.Equal(t, []string{"TSLA"}, tickers)
}

func TestExtractTickersCompanyAlias(t *testing.T) {
	tickers := ExtractTickers("what is the stock price of apple")
	assert.Equal(t, []string{"AAPL"}, tickers)
}

func TestExtractTickersIndianAlias(t *testing.T) {
	assert.Equal(t, []string{"RELIANCE.NS"}, ExtractTickers("show me reliance trend"))
	assert.Equal(t, []string{"TCS.NS"}, ExtractTickers("price of tcs"))
}

func TestExtractTickersConjunctionSplit(t *testing.T) {
	tickers := ExtractTickers("compare apple and microsoft")
	assert.Equal(t, []string{"AAPL", "MSFT"}, tickers)
}

func TestExtractTickersVersusSplit(t *testing.T) {
	tickers := ExtractTickers("AAPL vs MSFT vs GOOGL")
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOGL"}, tickers)
}

func TestExtractTickersDeduplicates(t *testing.T) {
	tickers := ExtractTickers("is $AAPL a buy? apple looks strong")
	assert.Equal(t, []string{"AAPL"}, tickers)
}

func TestExtractTickersIgnoresLongCapsWords(t *testing.T) {
	tickers := ExtractTickers("BREAKING market update")
	assert.Empty(t, tickers)
}

func TestExtractTickersNoMatch(t *testing.T) {
	assert.Empty(t, ExtractTickers("how is the weather"))
}

func TestDetectEntityPrefersTicker(t *testing.T) {
	name, topic := DetectEntity("news about $TSLA")
	assert.Equal(t, "TSLA", name)
	assert.Equal(t, entity.TopicStock, topic)
}

func TestDetectEntityCompany(t *testing.T) {
	name, topic := DetectEntity("what did goldman sachs say")
	assert.Equal(t, entity.TopicStock, topic)
	assert.Equal(t, "GS", name)
}

func TestDetectEntityPerson(t *testing.T) {
	name, topic := DetectEntity("latest from jerome powell")
	assert.Equal(t, "Jerome Powell", name)
	assert.Equal(t, entity.TopicPerson, topic)
}

func TestDetectEntityNone(t *testing.T) {
	name, topic := DetectEntity("how does inflation work")
	assert.Empty(t, name)
	assert.Equal(t, entity.TopicNone, topic)
}

func TestIsTickerCandidate(t *testing.T) {
	assert.True(t, isTickerCandidate("AAPL"))
	assert.True(t, isTickerCandidate("M&M"))
	assert.False(t, isTickerCandidate("Apple"))
	assert.False(t, isTickerCandidate("TOOLONG"))
	assert.False(t, isTickerCandidate(""))
	assert.False(t, isTickerCandidate("&&"))
}
