package formatter

import (
	"fmt"
	"regexp"
	"strings"

	"golang-finance-agent/internal/entity"
)

const (
	educationalDisclaimer = "This information is provided for educational purposes only."
	analysisDisclaimer    = "This analysis is based on publicly available information and should not be considered financial advice."
	reportDisclaimer      = "Analysis based on information gathered from market sources. This is for informational purposes only and should not be considered financial advice."
)

var (
	h1Re       = regexp.MustCompile(`(?m)^# (.*)$`)
	h2Re       = regexp.MustCompile(`(?m)^## (.*)$`)
	h3Re       = regexp.MustCompile(`(?m)^### (.*)$`)
	boldRe     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe   = regexp.MustCompile(`\*(.*?)\*`)
	bulletRe   = regexp.MustCompile(`(?m)^\s*[-*•]\s+(.*)$`)
	numberedRe = regexp.MustCompile(`(?m)^\s*\d+\.\s+(.*)$`)
	listWrapRe = regexp.MustCompile(`(?s)(<li>.*</li>)(\n<li>.*</li>)+`)
	hrRe       = regexp.MustCompile(`(?m)^---$`)
)

// RenderHTML renders a query result as an HTML fragment for web clients.
// Chart results render their caption; the image travels alongside as raw
// PNG bytes.
func RenderHTML(result entity.QueryResult) string {
	switch r := result.(type) {
	case entity.Unrelated:
		return renderSimpleHTML(r.Message)
	case entity.SimpleAnswer:
		return renderSimpleHTML(r.Text)
	case entity.ErrorResult:
		return renderSimpleHTML(r.Message)
	case entity.StockPrice:
		return renderSimpleHTML(priceMarkdown(r))
	case entity.StockChart:
		return renderSimpleHTML(chartMarkdown(r))
	case entity.StockComparison:
		return renderSimpleHTML(comparisonMarkdown(r))
	case entity.SentimentReport:
		if r.Detailed {
			return renderDetailedReportHTML(r)
		}
		return renderConversationalHTML(r.Summary, r.Sentiment)
	default:
		return ""
	}
}

// renderSimpleHTML converts lightweight markdown to HTML, or wraps plain
// text in the default response frame.
func renderSimpleHTML(text string) string {
	if strings.HasPrefix(text, "#") || strings.Contains(text, "**") || strings.Contains(text, "##") {
		return markdownToHTML(text)
	}
	return fmt.Sprintf("<h1>💬 Response</h1>\n\n%s\n\n<hr>\n<em>%s</em>\n", text, educationalDisclaimer)
}

func renderConversationalHTML(summary, sentiment string) string {
	return fmt.Sprintf(`<h1>Financial Insight %s</h1>

<h2>Summary</h2>
%s

<h2>Sentiment Analysis</h2>
Overall sentiment appears to be <strong>%s</strong>.

<hr>
<em>%s</em>
`, SentimentEmoji(sentiment), summary, strings.ToLower(sentiment), analysisDisclaimer)
}

func renderDetailedReportHTML(r entity.SentimentReport) string {
	return fmt.Sprintf(`<h1>Financial Market Analysis %s</h1>

<h2>Key Findings</h2>

<strong>Sentiment:</strong> %s
<strong>Confidence Level:</strong> %s

<h2>Summary</h2>
%s

<h2>Market Impact</h2>
%s

<h2>Analysis Details</h2>
%s

<h2>Recommendations</h2>
%s

<hr>
<em>%s</em>
`, SentimentEmoji(r.Sentiment), r.Sentiment, r.Confidence, r.Summary, r.MarketImpact,
		listToHTML(r.DetailedAnalysis), listToHTML(r.Recommendations), reportDisclaimer)
}

// markdownToHTML rewrites headers, emphasis, lists, and rules. Bold runs
// before italic so double asterisks never leave stray <em> tags.
func markdownToHTML(text string) string {
	text = h1Re.ReplaceAllString(text, "<h1>$1</h1>")
	text = h2Re.ReplaceAllString(text, "<h2>$1</h2>")
	text = h3Re.ReplaceAllString(text, "<h3>$1</h3>")
	text = boldRe.ReplaceAllString(text, "<strong>$1</strong>")
	text = bulletRe.ReplaceAllString(text, "<li>$1</li>")
	text = listWrapRe.ReplaceAllString(text, "<ul>$1$2</ul>")
	text = hrRe.ReplaceAllString(text, "<hr>")
	text = italicRe.ReplaceAllString(text, "<em>$1</em>")
	return text
}

// listToHTML converts a block whose lines are bullets or numbered items
// into a <ul> or <ol>. Other text passes through unchanged.
func listToHTML(text string) string {
	if bulletRe.MatchString(text) {
		return "<ul>" + bulletRe.ReplaceAllString(text, "<li>$1</li>") + "</ul>"
	}
	if numberedRe.MatchString(text) {
		return "<ol>" + numberedRe.ReplaceAllString(text, "<li>$1</li>") + "</ol>"
	}
	return text
}

func priceMarkdown(r entity.StockPrice) string {
	name := r.Ticker
	if r.Info != nil && r.Info.Name != "" {
		name = r.Info.Name
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("## %s (%s)\n\n", name, r.Ticker))
	b.WriteString(fmt.Sprintf("**Current Price**: $%.2f %s\n\n", r.Price, r.Currency))
	if r.Info != nil {
		if r.Info.Sector != "" {
			b.WriteString(fmt.Sprintf("**Sector**: %s\n\n", r.Info.Sector))
		}
		if r.Info.MarketCapFormatted != "" {
			b.WriteString(fmt.Sprintf("**Market Cap**: %s\n\n", r.Info.MarketCapFormatted))
		}
		if r.Info.PERatio != nil {
			b.WriteString(fmt.Sprintf("**P/E Ratio**: %.2f\n\n", *r.Info.PERatio))
		}
		if r.Info.DividendYield != nil {
			b.WriteString(fmt.Sprintf("**Dividend Yield**: %.2f%%\n\n", *r.Info.DividendYield))
		}
	}
	return strings.TrimSpace(b.String())
}

func chartMarkdown(r entity.StockChart) string {
	var b strings.Builder
	kind := "Price Chart"
	if r.Technical {
		kind = "Technical Analysis"
	}
	b.WriteString(fmt.Sprintf("## %s %s (%s)\n\n", r.Ticker, kind, r.Period))
	b.WriteString(fmt.Sprintf("**Latest Price**: $%.2f\n\n", r.LatestPrice))
	if r.SMA20 != nil {
		b.WriteString(fmt.Sprintf("**SMA (20)**: %.2f\n\n", *r.SMA20))
	}
	if r.SMA50 != nil {
		b.WriteString(fmt.Sprintf("**SMA (50)**: %.2f\n\n", *r.SMA50))
	}
	return strings.TrimSpace(b.String())
}

func comparisonMarkdown(r entity.StockComparison) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("## Performance Comparison (%s)\n\n", r.Period))
	for _, ticker := range r.Tickers {
		b.WriteString(fmt.Sprintf("- **%s**: %+.2f%%\n", ticker, r.Performance[ticker]))
	}
	return strings.TrimSpace(b.String())
}

// SentimentEmoji maps a normalized sentiment to its display emoji.
func SentimentEmoji(sentiment string) string {
	switch sentiment {
	case "POSITIVE":
		return "📈"
	case "NEGATIVE":
		return "📉"
	case "NEUTRAL":
		return "➡️"
	case "MIXED":
		return "🔄"
	}
	return "🔍"
}
