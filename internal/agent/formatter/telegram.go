package formatter

import (
	"fmt"
	"strings"

	"golang-finance-agent/internal/entity"
)

// RenderTelegram renders a query result as a Telegram Markdown message.
// Chart results produce the photo caption; the PNG is attached by the bot.
func RenderTelegram(result entity.QueryResult) string {
	switch r := result.(type) {
	case entity.Unrelated:
		return r.Message
	case entity.SimpleAnswer:
		return r.Text
	case entity.ErrorResult:
		return fmt.Sprintf("⚠️ %s", r.Message)
	case entity.StockPrice:
		return telegramPrice(r)
	case entity.StockChart:
		return telegramChartCaption(r)
	case entity.StockComparison:
		return telegramComparisonCaption(r)
	case entity.SentimentReport:
		if r.Detailed {
			return telegramDetailedReport(r)
		}
		return telegramConversational(r)
	default:
		return ""
	}
}

func telegramPrice(r entity.StockPrice) string {
	name := r.Ticker
	if r.Info != nil && r.Info.Name != "" {
		name = r.Info.Name
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 *%s (%s)*\n\n", name, r.Ticker))
	b.WriteString(fmt.Sprintf("💰 *Current Price:* $%.2f %s\n", r.Price, r.Currency))
	if r.Info != nil {
		if r.Info.Sector != "" {
			b.WriteString(fmt.Sprintf("🏢 *Sector:* %s\n", r.Info.Sector))
		}
		if r.Info.MarketCapFormatted != "" {
			b.WriteString(fmt.Sprintf("📊 *Market Cap:* %s\n", r.Info.MarketCapFormatted))
		}
		if r.Info.PERatio != nil {
			b.WriteString(fmt.Sprintf("⚖️ *P/E Ratio:* %.2f\n", *r.Info.PERatio))
		}
		if r.Info.DividendYield != nil {
			b.WriteString(fmt.Sprintf("💵 *Dividend Yield:* %.2f%%\n", *r.Info.DividendYield))
		}
	}
	return strings.TrimSpace(b.String())
}

func telegramChartCaption(r entity.StockChart) string {
	var b strings.Builder
	if r.Technical {
		b.WriteString(fmt.Sprintf("📊 *%s Technical Analysis* (%s)\n", r.Ticker, r.Period))
	} else {
		b.WriteString(fmt.Sprintf("📈 *%s Price Chart* (%s)\n", r.Ticker, r.Period))
	}
	b.WriteString(fmt.Sprintf("💰 Latest: $%.2f", r.LatestPrice))
	if r.SMA20 != nil {
		b.WriteString(fmt.Sprintf(" | SMA20: %.2f", *r.SMA20))
	}
	if r.SMA50 != nil {
		b.WriteString(fmt.Sprintf(" | SMA50: %.2f", *r.SMA50))
	}
	return b.String()
}

func telegramComparisonCaption(r entity.StockComparison) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 *Performance Comparison* (%s)\n\n", r.Period))
	for _, ticker := range r.Tickers {
		change := r.Performance[ticker]
		icon := "🟢"
		if change < 0 {
			icon = "🔴"
		}
		b.WriteString(fmt.Sprintf("%s *%s:* %+.2f%%\n", icon, ticker, change))
	}
	return strings.TrimSpace(b.String())
}

func telegramConversational(r entity.SentimentReport) string {
	return fmt.Sprintf(`*Financial Insight* %s

💬 *Summary:* %s

%s *Sentiment:* %s`,
		SentimentEmoji(r.Sentiment), r.Summary, SentimentEmoji(r.Sentiment), strings.ToLower(r.Sentiment))
}

func telegramDetailedReport(r entity.SentimentReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("*Financial Market Analysis* %s\n\n", SentimentEmoji(r.Sentiment)))
	b.WriteString(fmt.Sprintf("%s *Sentiment:* %s\n", SentimentEmoji(r.Sentiment), r.Sentiment))
	b.WriteString(fmt.Sprintf("🎯 *Confidence:* %s\n\n", r.Confidence))
	b.WriteString(fmt.Sprintf("💬 *Summary:*\n%s\n\n", r.Summary))
	b.WriteString(fmt.Sprintf("🌐 *Market Impact:*\n%s\n\n", r.MarketImpact))
	b.WriteString(fmt.Sprintf("🔎 *Analysis:*\n%s\n\n", r.DetailedAnalysis))
	b.WriteString(fmt.Sprintf("💡 *Recommendations:*\n%s", r.Recommendations))
	return b.String()
}
