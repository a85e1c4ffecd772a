package services

import (
	"log/slog"
	"sync"
	"time"
)

// ExpireFunc runs exactly once when a question's countdown reaches zero
// while the timer is still running. It is called from the timer goroutine
// with no timer locks held.
type ExpireFunc func(sessionID, questionCode string)

// TimerManager owns every active question countdown. A session has at most
// one timer, scoped to its pending question; starting a timer for a new
// question cancels the previous one, and submit, pause, completion and
// store eviction all cancel deterministically. No timer outlives its
// owning question.
type TimerManager struct {
	mu     sync.Mutex
	timers map[string]*answerTimer
	tick   time.Duration
	logger *slog.Logger
}

type answerTimer struct {
	sessionID    string
	questionCode string

	mu        sync.Mutex
	remaining int
	running   bool
	stopped   bool
	fired     bool

	stopCh chan struct{}
}

func NewTimerManager(logger *slog.Logger) *TimerManager {
	return newTimerManagerWithTick(time.Second, logger)
}

// newTimerManagerWithTick exists so tests can run countdowns at
// millisecond resolution.
func newTimerManagerWithTick(tick time.Duration, logger *slog.Logger) *TimerManager {
	return &TimerManager{
		timers: make(map[string]*answerTimer),
		tick:   tick,
		logger: logger,
	}
}

// Start begins a countdown of limitSeconds for the session's pending
// question, replacing any previous timer for the session.
func (m *TimerManager) Start(sessionID, questionCode string, limitSeconds int, onExpire ExpireFunc) {
	t := &answerTimer{
		sessionID:    sessionID,
		questionCode: questionCode,
		remaining:    limitSeconds,
		running:      true,
		stopCh:       make(chan struct{}),
	}

	m.mu.Lock()
	if prev, ok := m.timers[sessionID]; ok {
		prev.stop()
	}
	m.timers[sessionID] = t
	m.mu.Unlock()

	go m.run(t, onExpire)
}

// Pause freezes the session's countdown at its current value.
func (m *TimerManager) Pause(sessionID string) {
	if t := m.get(sessionID); t != nil {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}
}

// Resume continues the countdown from where Pause left it.
func (m *TimerManager) Resume(sessionID string) {
	if t := m.get(sessionID); t != nil {
		t.mu.Lock()
		if !t.stopped && !t.fired {
			t.running = true
		}
		t.mu.Unlock()
	}
}

// Cancel stops and forgets the session's timer. Safe to call when no timer
// exists; an expiry racing with Cancel loses if it has not fired yet.
func (m *TimerManager) Cancel(sessionID string) {
	m.mu.Lock()
	t, ok := m.timers[sessionID]
	if ok {
		delete(m.timers, sessionID)
	}
	m.mu.Unlock()

	if ok {
		t.stop()
	}
}

// Remaining reports the seconds left on the session's countdown. The bool
// is false when no timer exists.
func (m *TimerManager) Remaining(sessionID string) (int, bool) {
	t := m.get(sessionID)
	if t == nil {
		return 0, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining, true
}

// Shutdown cancels every timer.
func (m *TimerManager) Shutdown() {
	m.mu.Lock()
	timers := make([]*answerTimer, 0, len(m.timers))
	for _, t := range m.timers {
		timers = append(timers, t)
	}
	m.timers = make(map[string]*answerTimer)
	m.mu.Unlock()

	for _, t := range timers {
		t.stop()
	}
}

func (m *TimerManager) get(sessionID string) *answerTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.timers[sessionID]
}

func (m *TimerManager) run(t *answerTimer, onExpire ExpireFunc) {
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.mu.Lock()
			if t.stopped {
				t.mu.Unlock()
				return
			}
			if !t.running {
				t.mu.Unlock()
				continue
			}
			if t.remaining > 0 {
				t.remaining--
			}
			expired := t.remaining == 0 && !t.fired
			if expired {
				t.fired = true
				t.stopped = true
			}
			t.mu.Unlock()

			if expired {
				m.forget(t)
				m.logger.Debug("Answer timer expired",
					"session_id", t.sessionID,
					"question_code", t.questionCode)
				if onExpire != nil {
					onExpire(t.sessionID, t.questionCode)
				}
				return
			}
		}
	}
}

// forget removes the timer from the registry if it is still the session's
// current timer.
func (m *TimerManager) forget(t *answerTimer) {
	m.mu.Lock()
	if current, ok := m.timers[t.sessionID]; ok && current == t {
		delete(m.timers, t.sessionID)
	}
	m.mu.Unlock()
}

// stop marks the timer dead and wakes its goroutine. Idempotent.
func (t *answerTimer) stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	t.mu.Unlock()
	close(t.stopCh)
}
