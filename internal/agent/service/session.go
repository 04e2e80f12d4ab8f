package service

import (
	"time"

	"golang-finance-agent/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionManager hands out per-conversation sessions keyed by an opaque ID
// (HTTP session header, Telegram chat ID). Idle sessions expire.
type SessionManager interface {
	GetOrCreate(id string) *entity.Session
	Get(id string) (*entity.Session, bool)
}

// NewSessionManager creates a new session manager with the given idle TTL.
func NewSessionManager(ttl time.Duration) SessionManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &sessionManager{
		ttl:      ttl,
		sessions: cache.New(ttl, 2*ttl),
	}
}

type sessionManager struct {
	ttl      time.Duration
	sessions *cache.Cache
}

// GetOrCreate returns the session for id, creating it when absent. Each
// access refreshes the idle expiry.
func (m *sessionManager) GetOrCreate(id string) *entity.Session {
	if cached, found := m.sessions.Get(id); found {
		session := cached.(*entity.Session)
		m.sessions.Set(id, session, cache.DefaultExpiration)
		return session
	}
	session := entity.NewSession(id)
	m.sessions.Set(id, session, cache.DefaultExpiration)
	return session
}

// Get returns the session for id without creating one.
func (m *sessionManager) Get(id string) (*entity.Session, bool) {
	cached, found := m.sessions.Get(id)
	if !found {
		return nil, false
	}
	return cached.(*entity.Session), true
}
