package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/DhavalSuthar-24/crease/internal/logger"
	"github.com/DhavalSuthar-24/crease/internal/scoring"
)

var (
	ErrSessionExists   = errors.New("scoring session already open for match")
	ErrSessionNotFound = errors.New("no scoring session for match")
	ErrSessionEvicted  = errors.New("scoring session was evicted; reload the match")
)

// restore rebuilds an engine from its export.
var restore = scoring.Import

// Loader restores a suspended match. It returns nil, nil when nothing is stored.
type Loader interface {
	LoadSnapshot(ctx context.Context, matchID uint) (*scoring.ExportedMatch, error)
}

// Session wraps the engine of one match. All access goes through Do or View,
// which hold the session lock.
type Session struct {
	MatchID uint

	mu      sync.Mutex
	engine  *scoring.MatchEngine
	evicted bool
	evict   func(*Session)
	log     *zap.Logger
}

// Do runs fn with exclusive access to the engine.
func (s *Session) Do(fn func(*scoring.MatchEngine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evicted {
		return fmt.Errorf("%w: %d", ErrSessionEvicted, s.MatchID)
	}
	return fn(s.engine)
}

// Apply runs fn like Do, and rolls the engine back to its state before the
// call when fn fails. Callers that persist inside fn use it so a failed write
// never leaves the engine ahead of storage. If the rollback itself fails the
// session is evicted, so the next Get restores the match from storage.
func (s *Session) Apply(fn func(*scoring.MatchEngine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evicted {
		return fmt.Errorf("%w: %d", ErrSessionEvicted, s.MatchID)
	}
	before := s.engine.Export()
	err := fn(s.engine)
	if err == nil {
		return nil
	}
	restored, ierr := restore(before)
	if ierr == nil {
		s.engine = restored
		return err
	}

	s.log.Error("engine rollback failed; evicting session",
		zap.NamedError("cause", err),
		zap.Error(ierr),
	)
	s.evicted = true
	if s.evict != nil {
		s.evict(s)
	}
	return err
}

// View runs fn for a read-only projection.
func (s *Session) View(fn func(*scoring.MatchEngine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine)
}

// Manager is the registry of live scoring sessions keyed by match id.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uint]*Session
	loader   Loader
	log      *zap.Logger
}

func NewManager(loader Loader, log *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[uint]*Session),
		loader:   loader,
		log:      logger.OrNop(log),
	}
}

// Open creates a fresh session for matchID.
func (m *Manager) Open(matchID uint, format scoring.Format) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[matchID]; ok {
		return nil, fmt.Errorf("%w: %d", ErrSessionExists, matchID)
	}
	s := m.newSession(matchID, scoring.New(format))
	m.sessions[matchID] = s
	m.log.Info("scoring session opened", zap.Uint("match_id", matchID), zap.Int("max_overs", format.MaxOvers))
	return s, nil
}

// Get returns the live session for matchID, restoring it through the Loader
// if it is not in memory.
func (m *Manager) Get(ctx context.Context, matchID uint) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[matchID]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	if m.loader == nil {
		return nil, fmt.Errorf("%w: %d", ErrSessionNotFound, matchID)
	}
	snap, err := m.loader.LoadSnapshot(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot for match %d: %w", matchID, err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: %d", ErrSessionNotFound, matchID)
	}
	engine, err := scoring.Import(*snap)
	if err != nil {
		return nil, fmt.Errorf("restore match %d: %w", matchID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// another caller may have restored it while we were loading
	if s, ok := m.sessions[matchID]; ok {
		return s, nil
	}
	s = m.newSession(matchID, engine)
	m.sessions[matchID] = s
	m.log.Info("scoring session restored",
		zap.Uint("match_id", matchID),
		zap.Int("innings", engine.InningsCount()),
		zap.Bool("complete", engine.IsMatchComplete()),
	)
	return s, nil
}

func (m *Manager) newSession(matchID uint, engine *scoring.MatchEngine) *Session {
	return &Session{
		MatchID: matchID,
		engine:  engine,
		evict:   m.remove,
		log:     m.log.With(zap.Uint("match_id", matchID)),
	}
}

// remove drops s if it is still the registered session of its match.
func (m *Manager) remove(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[s.MatchID] == s {
		delete(m.sessions, s.MatchID)
	}
}

// Dispose drops the session for matchID. It is a no-op if none is open.
func (m *Manager) Dispose(matchID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[matchID]; ok {
		delete(m.sessions, matchID)
		m.log.Info("scoring session disposed", zap.Uint("match_id", matchID))
	}
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
