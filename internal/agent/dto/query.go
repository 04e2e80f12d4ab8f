package dto

// QueryRequest is one user question. SessionID is optional; when empty a
// new session is created and its ID returned.
type QueryRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Query     string `json:"query" validate:"required"`
}

// QueryResponse is the answer to one question. Response holds the rendered
// HTML fragment; Image holds base64 PNG bytes for chart results.
type QueryResponse struct {
	SessionID string `json:"session_id"`
	Type      string `json:"type"`
	Response  string `json:"response"`
	Image     string `json:"image,omitempty"`
	Sentiment string `json:"sentiment,omitempty"`
}

// HistoryEntryResponse is one logged exchange.
type HistoryEntryResponse struct {
	Query    string `json:"query"`
	Response string `json:"response"`
	Entities string `json:"entities,omitempty"`
	At       string `json:"at"`
}

// HistoryResponse is the conversation log of one session.
type HistoryResponse struct {
	SessionID string                 `json:"session_id"`
	History   []HistoryEntryResponse `json:"history"`
}

// ErrorResponse is the error payload shape for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
