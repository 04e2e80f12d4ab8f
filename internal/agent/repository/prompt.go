package repository

import "fmt"

// BuildRelatednessPrompt asks the model for a bare YES/NO on whether the
// query belongs to the finance/business/markets domain.
func BuildRelatednessPrompt(query string) string {
	return fmt.Sprintf(`Determine if the following query is related to finance, business, or markets.
If it asks about stocks, investments, financial figures, companies, market trends,
economic news, or similar topics, respond with "YES". Otherwise, respond with "NO".

Query: %s

Answer only with YES or NO:`, query)
}

// BuildSentimentAnalysisPrompt asks the model for the six numbered sections
// the section parser expects. The model is not guaranteed to follow the
// format; missing sections fall back to defaults at parse time.
func BuildSentimentAnalysisPrompt(consolidated, userQuery string) string {
	return fmt.Sprintf(`You are a financial expert specializing in sentiment analysis. Analyze the following information related to this query: "%s"

INFORMATION:
%s

Please provide a structured analysis with these exact headings and format:

1. SENTIMENT: [Clearly state if the sentiment is POSITIVE, NEGATIVE, NEUTRAL, or MIXED. Be definitive.]

2. CONFIDENCE: [State Low, Medium, or High]

3. MARKET IMPACT: [Analyze potential impact on relevant markets, companies, or industries]

4. DETAILED ANALYSIS: [Provide reasoning, analyze both explicit and implicit meanings]

5. SUMMARY: [Give a 2-3 sentence summary]

6. RECOMMENDATIONS: [Provide 2-3 actionable insights]

Use only the information provided. If there is truly insufficient information for any section, indicate "Insufficient information available" in that section.`, userQuery, consolidated)
}
