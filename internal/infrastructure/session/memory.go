package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/smartcart/backend/internal/domain"
)

// MemoryStore keeps users and sessions in process memory. Every read
// returns a copy, so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*domain.User // keyed by lowercased email
	sessions map[string]*domain.Session
	now      func() time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*domain.User),
		sessions: make(map[string]*domain.Session),
		now:      time.Now,
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser stores a new user, failing if the email is taken
func (s *MemoryStore) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(user.Email)
	if _, exists := s.users[key]; exists {
		return domain.ErrUserExists
	}

	stored := *user
	s.users[key] = &stored
	return nil
}

// GetUserByEmail looks a user up by email, ignoring case
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[emailKey(email)]
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	found := *user
	return &found, nil
}

// CreateSession stores a new session
func (s *MemoryStore) CreateSession(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session.Clone()
	return nil
}

// GetSession returns a live session or ErrUnauthorized
func (s *MemoryStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.liveSession(id)
	if err != nil {
		return nil, err
	}
	return session.Clone(), nil
}

// UpdateSession applies fn to a copy of the session and stores it if fn succeeds
func (s *MemoryStore) UpdateSession(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.liveSession(id)
	if err != nil {
		return nil, err
	}

	updated := session.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}

	s.sessions[id] = updated
	return updated.Clone(), nil
}

// DeleteSession removes a session; deleting an unknown session is not an error
func (s *MemoryStore) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// PurgeExpired drops expired sessions and reports how many were removed
func (s *MemoryStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run purges expired sessions every interval until ctx is done
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.PurgeExpired()
		}
	}
}

// liveSession must be called with mu held
func (s *MemoryStore) liveSession(id string) (*domain.Session, error) {
	session, exists := s.sessions[id]
	if !exists || session.Expired(s.now()) {
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}
