package repository

import (
	"sort"
	"strings"

	"golang-finance-agent/internal/agent/dto"
)

// Default section texts used when the model reply omits a section or leaves
// it empty.
const (
	DefaultSentiment        = "Unable to determine sentiment"
	DefaultConfidence       = "Low"
	DefaultMarketImpact     = "Insufficient information to assess market impact"
	DefaultDetailedAnalysis = "No detailed analysis available"
	DefaultSummary          = "Insufficient information to provide a summary"
	DefaultRecommendations  = "Unable to provide recommendations with available information"
)

var sectionMarkers = []string{
	"1. SENTIMENT:",
	"2. CONFIDENCE:",
	"3. MARKET IMPACT:",
	"4. DETAILED ANALYSIS:",
	"5. SUMMARY:",
	"6. RECOMMENDATIONS:",
}

type markerHit struct {
	section int
	start   int // offset of the section content
	marker  int // offset of the marker itself
}

// ParseSentimentSections extracts the six labeled sections from a free-form
// model reply. Marker offsets are located first, then content is sliced
// between consecutive markers, so marker text quoted inside an earlier
// section cannot truncate it twice. Missing or empty sections keep their
// defaults. The sentiment field is normalized to POSITIVE / NEGATIVE /
// NEUTRAL / MIXED by substring priority; unrecognized text is kept as-is.
func ParseSentimentSections(text string) *dto.SentimentSections {
	sections := &dto.SentimentSections{
		Sentiment:        DefaultSentiment,
		Confidence:       DefaultConfidence,
		MarketImpact:     DefaultMarketImpact,
		DetailedAnalysis: DefaultDetailedAnalysis,
		Summary:          DefaultSummary,
		Recommendations:  DefaultRecommendations,
	}

	var hits []markerHit
	for i, marker := range sectionMarkers {
		if idx := strings.Index(text, marker); idx >= 0 {
			hits = append(hits, markerHit{section: i, start: idx + len(marker), marker: idx})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].marker < hits[j].marker })

	for i, hit := range hits {
		end := len(text)
		if i+1 < len(hits) {
			end = hits[i+1].marker
		}
		content := strings.TrimSpace(text[hit.start:end])
		if content == "" {
			continue
		}
		switch hit.section {
		case 0:
			sections.Sentiment = content
		case 1:
			sections.Confidence = content
		case 2:
			sections.MarketImpact = content
		case 3:
			sections.DetailedAnalysis = content
		case 4:
			sections.Summary = content
		case 5:
			sections.Recommendations = content
		}
	}

	sections.Sentiment = normalizeSentiment(sections.Sentiment)
	return sections
}

func normalizeSentiment(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "positive"):
		return "POSITIVE"
	case strings.Contains(lower, "negative"):
		return "NEGATIVE"
	case strings.Contains(lower, "neutral"):
		return "NEUTRAL"
	case strings.Contains(lower, "mixed"):
		return "MIXED"
	}
	return raw
}
