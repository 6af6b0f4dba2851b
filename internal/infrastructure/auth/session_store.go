package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/invoicer/backend/internal/domain/identity"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a session id is unknown or expired
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps server-side sessions created at sign-in
type SessionStore interface {
	Create(ctx context.Context, principalID uuid.UUID, email string, metadata map[string]string, ttl time.Duration) (*identity.Session, error)
	Get(ctx context.Context, sessionID string) (*identity.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

func newSession(principalID uuid.UUID, email string, metadata map[string]string, ttl time.Duration) *identity.Session {
	now := time.Now()
	md := make(map[string]string, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	return &identity.Session{
		ID:          uuid.NewString(),
		PrincipalID: principalID,
		Email:       email,
		Metadata:    md,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

// RedisSessionStore stores sessions as JSON with a TTL
type RedisSessionStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSessionStore creates a session store on an existing Redis client
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{
		client:    client,
		keyPrefix: "invoicer:session:",
	}
}

// Create stores a new session
func (s *RedisSessionStore) Create(ctx context.Context, principalID uuid.UUID, email string, metadata map[string]string, ttl time.Duration) (*identity.Session, error) {
	session := newSession(principalID, email, metadata, ttl)
	payload, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.keyPrefix+session.ID, payload, ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

// Get loads a session by id
func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*identity.Session, error) {
	payload, err := s.client.Get(ctx, s.keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session identity.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// Delete removes a session
func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

var _ SessionStore = (*RedisSessionStore)(nil)

// InMemorySessionStore keeps sessions in process memory. A background
// goroutine drops expired sessions until Close is called.
type InMemorySessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]*identity.Session
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySessionStore creates an empty in-memory session store that
// sweeps expired sessions every cleanupInterval (five minutes when <= 0)
func NewInMemorySessionStore(cleanupInterval time.Duration) *InMemorySessionStore {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	store := &InMemorySessionStore{
		sessions: make(map[string]*identity.Session),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop(cleanupInterval)

	return store
}

// Create stores a new session
func (s *InMemorySessionStore) Create(_ context.Context, principalID uuid.UUID, email string, metadata map[string]string, ttl time.Duration) (*identity.Session, error) {
	session := newSession(principalID, email, metadata, ttl)
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	copied := *session
	return &copied, nil
}

// Get loads a session by id
func (s *InMemorySessionStore) Get(_ context.Context, sessionID string) (*identity.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || session.IsExpired(s.now()) {
		return nil, ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

// Delete removes a session
func (s *InMemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemorySessionStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemorySessionStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemorySessionStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, session := range s.sessions {
		if session.IsExpired(now) {
			delete(s.sessions, id)
		}
	}
}

// Len returns the number of sessions held, expired ones included
func (s *InMemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var _ SessionStore = (*InMemorySessionStore)(nil)
