package store

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prepwise/interview-service/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
)

// SessionStore is the in-memory registry mapping session id to session
// state. Sessions are owned by the store for the process lifetime and
// evicted after an idle TTL; there is no explicit delete operation.
//
// Each session carries two locks. The operation mutex serializes question
// delivery and answer submission against each other, and is the only lock
// an in-flight collaborator call may span. The state mutex guards the
// session value itself and is never held across I/O, so display reads stay
// responsive while a slow generation or evaluation call is in flight.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]*entry

	ttl           time.Duration
	sweepInterval time.Duration
	logger        *slog.Logger

	// onEvict runs outside all store locks, once per evicted session.
	// Wired to the timer manager so eviction cancels any live countdown.
	onEvict func(sessionID string)

	stopCh   chan struct{}
	stopOnce sync.Once
}

type entry struct {
	opMu sync.Mutex

	stateMu    sync.RWMutex
	session    *models.Session
	lastAccess time.Time
}

// NewSessionStore creates a store whose janitor evicts sessions idle for
// longer than ttl. Call Close to stop the janitor.
func NewSessionStore(ttl, sweepInterval time.Duration, logger *slog.Logger) *SessionStore {
	s := &SessionStore{
		entries:       make(map[string]*entry),
		ttl:           ttl,
		sweepInterval: sweepInterval,
		logger:        logger,
		stopCh:        make(chan struct{}),
	}
	go s.janitor()
	return s
}

// SetEvictHook registers the callback invoked for every evicted session.
// Safe to call while the janitor is running.
func (s *SessionStore) SetEvictHook(fn func(sessionID string)) {
	s.mu.Lock()
	s.onEvict = fn
	s.mu.Unlock()
}

// Put registers a new session. The store keeps its own copy.
func (s *SessionStore) Put(session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[session.ID]; exists {
		return ErrSessionExists
	}
	s.entries[session.ID] = &entry{
		session:    session.Clone(),
		lastAccess: time.Now(),
	}
	return nil
}

// Snapshot returns a deep copy of the session for display. It never blocks
// on in-flight operations beyond the brief state lock.
func (s *SessionStore) Snapshot(id string) (*models.Session, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	e.stateMu.RLock()
	snapshot := e.session.Clone()
	e.stateMu.RUnlock()

	e.touch()
	return snapshot, nil
}

// Handle is an acquired, exclusively-held session operation. Exactly one
// Handle per session exists at a time; collaborator I/O may happen between
// Snapshot and Update, the state lock is only taken inside them.
type Handle struct {
	entry *entry
	id    string
}

// Acquire takes the session's operation lock, blocking until any in-flight
// next/submit on the same session finishes. Callers must Release.
func (s *SessionStore) Acquire(id string) (*Handle, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	e.opMu.Lock()

	// The janitor may have evicted the entry between lookup and lock.
	s.mu.RLock()
	current, alive := s.entries[id]
	s.mu.RUnlock()
	if !alive || current != e {
		e.opMu.Unlock()
		return nil, ErrSessionNotFound
	}

	e.touch()
	return &Handle{entry: e, id: id}, nil
}

// Snapshot returns a deep copy of the session under the handle.
func (h *Handle) Snapshot() *models.Session {
	h.entry.stateMu.RLock()
	defer h.entry.stateMu.RUnlock()
	return h.entry.session.Clone()
}

// Update applies fn to the live session under the state lock. fn must not
// block on I/O. If fn returns an error the session is left as fn leaves it,
// so fn must mutate only after its checks pass.
func (h *Handle) Update(fn func(*models.Session) error) error {
	h.entry.stateMu.Lock()
	defer h.entry.stateMu.Unlock()
	return fn(h.entry.session)
}

// Release returns the session's operation lock. The session counts as
// accessed when the operation finishes, not just when it starts.
func (h *Handle) Release() {
	h.entry.touch()
	h.entry.opMu.Unlock()
}

// UpdateState applies fn under only the state lock, without waiting for
// the operation lock. For fast lifecycle mutations (pause, resume, draft)
// that must not queue behind an in-flight collaborator call. fn must not
// block on I/O.
func (s *SessionStore) UpdateState(id string, fn func(*models.Session) error) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}

	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	e.lastAccess = time.Now()
	return fn(e.session)
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the eviction janitor. Live sessions stay readable.
func (s *SessionStore) Close() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

func (s *SessionStore) entry(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (e *entry) touch() {
	e.stateMu.Lock()
	e.lastAccess = time.Now()
	e.stateMu.Unlock()
}

func (s *SessionStore) janitor() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *SessionStore) sweep() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.RLock()
	onEvict := s.onEvict
	stale := make([]string, 0)
	for id, e := range s.entries {
		e.stateMu.RLock()
		idle := e.lastAccess.Before(cutoff)
		e.stateMu.RUnlock()
		if idle {
			stale = append(stale, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range stale {
		if s.evict(id, cutoff) && onEvict != nil {
			onEvict(id)
		}
	}
}

// evict removes one idle session. A session with an in-flight operation is
// skipped and picked up on a later sweep.
func (s *SessionStore) evict(id string, cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return false
	}
	if !e.opMu.TryLock() {
		return false
	}
	defer e.opMu.Unlock()

	e.stateMu.RLock()
	idle := e.lastAccess.Before(cutoff)
	e.stateMu.RUnlock()
	if !idle {
		return false
	}

	delete(s.entries, id)
	s.logger.Info("Evicted idle session", "session_id", id)
	return true
}
