package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// TokenStore holds short-lived, single-use handshake tokens that bind a
// WebSocket connection to a user identity. Entries expire after the TTL and
// are removed lazily on claim plus by a periodic sweep. State is process
// local: tokens reset on restart together with the channels they
// authenticate.
type TokenStore struct {
	mu        sync.Mutex
	tokens    map[string]tokenEntry
	ttl       time.Duration
	done      chan struct{}
	closeOnce sync.Once
}

type tokenEntry struct {
	userID    string
	expiresAt time.Time
}

func NewTokenStore(ttl time.Duration) *TokenStore {
	s := &TokenStore{
		tokens: make(map[string]tokenEntry),
		ttl:    ttl,
		done:   make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Mint issues a fresh token for the user, valid for one claim within the TTL.
func (s *TokenStore) Mint(userID string) string {
	token := uuid.New().String()

	s.mu.Lock()
	s.tokens[token] = tokenEntry{
		userID:    userID,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()

	return token
}

// Claim consumes a token and returns the bound user. A claimed or expired
// token fails, and fails again on replay.
func (s *TokenStore) Claim(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[token]
	if !ok {
		return "", false
	}
	delete(s.tokens, token)

	if time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.userID, true
}

func (s *TokenStore) sweep() {
	interval := s.ttl
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for token, entry := range s.tokens {
				if now.After(entry.expiresAt) {
					delete(s.tokens, token)
				}
			}
			s.mu.Unlock()

		case <-s.done:
			return
		}
	}
}

func (s *TokenStore) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
