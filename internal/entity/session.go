package entity

import (
	"sync"
	"time"
)

// Topic classifies what kind of entity the conversation last touched.
type Topic string

const (
	TopicNone          Topic = "none"
	TopicStock         Topic = "stock"
	TopicCompany       Topic = "company"
	TopicPerson        Topic = "person"
	TopicFinancialTerm Topic = "financial_term"
)

// Context carries the conversational state used to resolve follow-up
// questions. One live Context exists per session; it is reset only by
// starting a new session.
type Context struct {
	LastEntity   string `json:"last_entity,omitempty"`
	LastTopic    Topic  `json:"last_topic,omitempty"`
	LastQuery    string `json:"last_query,omitempty"`
	LastResponse string `json:"last_response,omitempty"`
}

// HistoryEntry is one exchange in the conversation log.
type HistoryEntry struct {
	Query    string    `json:"query"`
	Response string    `json:"response"`
	Entities string    `json:"entities,omitempty"`
	At       time.Time `json:"at"`
}

// MaxHistoryEntries caps the conversation log; the oldest entry is evicted
// first once the cap is reached.
const MaxHistoryEntries = 10

// Session owns the context and history of a single conversation. Sessions
// are independent of each other; queries within one session are serialized
// by the embedded mutex.
type Session struct {
	mu sync.Mutex

	ID        string         `json:"id"`
	Context   Context        `json:"context"`
	History   []HistoryEntry `json:"history"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewSession creates an empty session.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Context:   Context{LastTopic: TopicNone},
		CreatedAt: time.Now(),
	}
}

// Lock serializes query processing for this session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session for the next query.
func (s *Session) Unlock() { s.mu.Unlock() }

// AppendHistory appends an exchange, evicting the oldest entries beyond
// MaxHistoryEntries (FIFO, relative order preserved).
func (s *Session) AppendHistory(entry HistoryEntry) {
	s.History = append(s.History, entry)
	if len(s.History) > MaxHistoryEntries {
		s.History = s.History[len(s.History)-MaxHistoryEntries:]
	}
}

// HistorySnapshot returns a copy of the conversation log.
func (s *Session) HistorySnapshot() []HistoryEntry {
	out := make([]HistoryEntry, len(s.History))
	copy(out, s.History)
	return out
}
