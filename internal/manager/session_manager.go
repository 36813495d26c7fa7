package manager

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/NuZard84/go-speedtype/internal/game"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many active sessions")
)

// SessionManager keeps one controller per open page
type SessionManager struct {
	sessions    map[string]*game.Controller
	mu          sync.RWMutex
	maxSessions int
	ttl         time.Duration
	interval    time.Duration
	provider    game.TextProvider
	logger      *zap.SugaredLogger
}

func generateSessionID() string {
	return "session_0x" + uuid.New().String()[:8]
}

// NewSessionManager creates a session manager instance
func NewSessionManager(provider game.TextProvider, maxSessions int, ttl, interval time.Duration, logger *zap.SugaredLogger) *SessionManager {
	logger.Infow("Creating session manager", "maxSessions", maxSessions, "ttl", ttl.String())
	return &SessionManager{
		sessions:    make(map[string]*game.Controller),
		maxSessions: maxSessions,
		ttl:         ttl,
		interval:    interval,
		provider:    provider,
		logger:      logger,
	}
}

// Create registers a new controller and loads its first text.
func (m *SessionManager) Create(ctx context.Context) (*game.Controller, error) {
	m.mu.Lock()
	if len(m.sessions) >= m.maxSessions {
		m.mu.Unlock()
		return nil, ErrTooManySessions
	}

	id := generateSessionID()
	for m.sessions[id] != nil {
		id = generateSessionID()
	}
	ctrl := game.NewController(id, m.provider, m.interval, m.logger)
	m.sessions[id] = ctrl
	active := len(m.sessions)
	m.mu.Unlock()

	m.logger.Infow("Session created", "session", id, "active", active)

	if err := ctrl.Init(ctx); err != nil {
		m.Remove(id)
		return nil, err
	}
	return ctrl, nil
}

func (m *SessionManager) Get(id string) (*game.Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ctrl, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ctrl, nil
}

// Remove closes a session and forgets it
func (m *SessionManager) Remove(id string) error {
	m.mu.Lock()
	ctrl, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	active := len(m.sessions)
	m.mu.Unlock()

	ctrl.Close()
	m.logger.Infow("Session removed", "session", id, "active", active)
	return nil
}

func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Run removes abandoned sessions every interval until ctx is done.
func (m *SessionManager) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanupIdle(time.Now())
		}
	}
}

// CleanupIdle drops sessions with no clients whose last activity is older than the ttl.
func (m *SessionManager) CleanupIdle(now time.Time) int {
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	var stale []*game.Controller
	for id, ctrl := range m.sessions {
		if ctrl.ClientCount() == 0 && ctrl.LastActive().Before(cutoff) {
			stale = append(stale, ctrl)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, ctrl := range stale {
		ctrl.Close()
	}
	if len(stale) > 0 {
		m.logger.Infow("Cleaned up idle sessions", "removed", len(stale))
	}
	return len(stale)
}

// Shutdown closes every session.
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*game.Controller)
	m.mu.Unlock()

	for _, ctrl := range sessions {
		ctrl.Close()
	}
}
