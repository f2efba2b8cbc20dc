package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skillsync/internal/config"
	"skillsync/internal/errors"

	"github.com/google/uuid"
)

// Factory builds a new session with the given id
type Factory func(id string) *Session

// Store keeps the sessions of the HTTP API in memory
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	newSession      Factory
	idleTTL         time.Duration
	cleanupInterval time.Duration
	maxSessions     int
	recorder        Recorder
	logger          *errors.Logger
	now             func() time.Time
}

// NewStore creates a store. Sessions idle for longer than cfg.IdleTTL are
// evicted by Run; a zero TTL keeps sessions until deleted.
func NewStore(cfg config.SessionConfig, newSession Factory, recorder Recorder, logger *errors.Logger) *Store {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &Store{
		sessions:        make(map[string]*Session),
		newSession:      newSession,
		idleTTL:         cfg.IdleTTL,
		cleanupInterval: cfg.CleanupInterval,
		maxSessions:     cfg.MaxSessions,
		recorder:        recorder,
		logger:          logger,
		now:             time.Now,
	}
}

// Create adds a new session with a random id
func (st *Store) Create(ctx context.Context) (*Session, error) {
	st.mu.Lock()
	if st.maxSessions > 0 && len(st.sessions) >= st.maxSessions {
		st.mu.Unlock()
		return nil, errors.NewConflictError(errors.ErrCodeSessionLimit,
			fmt.Sprintf("Too many active sessions (limit %d). Try again later.", st.maxSessions))
	}
	id := uuid.NewString()
	s := st.newSession(id)
	st.sessions[id] = s
	count := len(st.sessions)
	st.mu.Unlock()

	st.recorder.SessionsChanged(ctx, 1)
	st.logger.Debug("Session created", "session_id", id, "active_sessions", count)
	return s, nil
}

// Get returns the session with the given id and marks it used
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError(errors.ErrCodeSessionNotFound,
			"Session not found. It may have expired.").WithContext("session_id", id)
	}
	s.Touch()
	return s, nil
}

// Delete removes a session; it reports whether the session existed
func (st *Store) Delete(ctx context.Context, id string) bool {
	st.mu.Lock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		st.recorder.SessionsChanged(ctx, -1)
	}
	return ok
}

// Len returns the number of sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// EvictIdle removes sessions idle for longer than the TTL. Busy sessions are
// kept until their call finishes.
func (st *Store) EvictIdle(ctx context.Context) int {
	if st.idleTTL <= 0 {
		return 0
	}
	cutoff := st.now().Add(-st.idleTTL)

	st.mu.Lock()
	evicted := 0
	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) && !s.Busy() {
			delete(st.sessions, id)
			evicted++
		}
	}
	st.mu.Unlock()

	if evicted > 0 {
		st.recorder.SessionsChanged(ctx, -int64(evicted))
		st.logger.Info("Evicted idle sessions", "count", evicted, "idle_ttl", st.idleTTL)
	}
	return evicted
}

// Run evicts idle sessions every cleanup interval until ctx is done
func (st *Store) Run(ctx context.Context) error {
	if st.idleTTL <= 0 || st.cleanupInterval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(st.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			st.EvictIdle(ctx)
		}
	}
}
