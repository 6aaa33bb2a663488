//go:generate go run go.uber.org/mock/mockgen -source=session.go -destination=../mocks/mock_session_store.go -package=mocks
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"chat-relay/domain"
	"chat-relay/errors"
)

const tokenBytes = 32

type ISessionStore interface {
	AddSession(username string) (string, error)
	GetSession(token string) (domain.Session, bool)
	RemoveSession(token string)
}

// SessionStore is the in-memory token -> identity mapping.
// Tokens are opaque bearer credentials; the store is the single source of truth
// for live sessions and supports removal for logout/expiry.
//
// SessionStore is safe for concurrent use by multiple goroutines.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AddSession issues a fresh unguessable token bound to username.
// 256 bits from crypto/rand make a collision with a live token practically
// impossible; the retry loop keeps uniqueness an invariant rather than a
// probability.
func (s *SessionStore) AddSession(username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		token, err := generateToken()
		if err != nil {
			return "", fmt.Errorf("%w: token generation: %v", errors.ErrStorageFault, err)
		}
		if _, taken := s.sessions[token]; taken {
			continue
		}
		s.sessions[token] = domain.Session{
			Token:     token,
			Username:  username,
			CreatedAt: s.now(),
		}
		return token, nil
	}
}

// GetSession looks up a token. An unknown token is not an error: the caller
// must treat the miss as unauthenticated.
func (s *SessionStore) GetSession(token string) (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	return session, ok
}

// RemoveSession is idempotent; removing an absent token is a no-op.
func (s *SessionStore) RemoveSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
}

func generateToken() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
