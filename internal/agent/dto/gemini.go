package dto

// GeminiAPIRequest is the request payload for the Gemini API.
type GeminiAPIRequest struct {
	Contents []Content `json:"contents"`
}

// Content represents the content of a request or response.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is a part of the content.
type Part struct {
	Text string `json:"text"`
}

// GeminiAPIResponse is the response from the Gemini API.
type GeminiAPIResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is a candidate response from the Gemini API.
type Candidate struct {
	Content Content `json:"content"`
}

// SentimentSections is the parsed six-section sentiment analysis. Fields the
// model reply did not cover hold their documented defaults.
type SentimentSections struct {
	Sentiment        string `json:"sentiment"`
	Confidence       string `json:"confidence"`
	MarketImpact     string `json:"market_impact"`
	DetailedAnalysis string `json:"detailed_analysis"`
	Summary          string `json:"summary"`
	Recommendations  string `json:"recommendations"`
}
