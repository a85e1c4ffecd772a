package store

import (
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/prepwise/interview-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testSession(id string) *models.Session {
	return &models.Session{
		ID:             id,
		Type:           models.SessionTechnical,
		Industry:       "software",
		Position:       "software engineer",
		Difficulty:     models.DifficultyMedium,
		TotalQuestions: 3,
		Status:         models.StatusActive,
		StartTime:      time.Now(),
	}
}

func TestSessionStore_PutAndSnapshot(t *testing.T) {
	s := NewSessionStore(time.Hour, time.Hour, testLogger())
	defer s.Close()

	require.NoError(t, s.Put(testSession("s1")))
	assert.ErrorIs(t, s.Put(testSession("s1")), ErrSessionExists)

	snap, err := s.Snapshot("s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", snap.ID)

	// Snapshots are copies; mutating one must not leak into the store.
	snap.TotalScore = 99
	again, err := s.Snapshot("s1")
	require.NoError(t, err)
	assert.Zero(t, again.TotalScore)

	_, err = s.Snapshot("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_HandleSerializesOperations(t *testing.T) {
	s := NewSessionStore(time.Hour, time.Hour, testLogger())
	defer s.Close()
	require.NoError(t, s.Put(testSession("s1")))

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				h, err := s.Acquire("s1")
				if err != nil {
					t.Error(err)
					return
				}
				_ = h.Update(func(sess *models.Session) error {
					sess.TotalScore++
					return nil
				})
				h.Release()
			}
		}()
	}
	wg.Wait()

	snap, err := s.Snapshot("s1")
	require.NoError(t, err)
	assert.Equal(t, float64(workers*perWorker), snap.TotalScore)
}

func TestSessionStore_SnapshotDoesNotBlockOnHeldHandle(t *testing.T) {
	s := NewSessionStore(time.Hour, time.Hour, testLogger())
	defer s.Close()
	require.NoError(t, s.Put(testSession("s1")))

	h, err := s.Acquire("s1")
	require.NoError(t, err)
	defer h.Release()

	// Simulates a display read while a slow collaborator call holds the
	// operation lock.
	done := make(chan struct{})
	go func() {
		_, err := s.Snapshot("s1")
		assert.NoError(t, err)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot blocked behind an in-flight operation")
	}
}

func TestSessionStore_EvictsIdleSessions(t *testing.T) {
	s := NewSessionStore(50*time.Millisecond, 20*time.Millisecond, testLogger())
	defer s.Close()

	require.NoError(t, s.Put(testSession("stale")))

	// Registered while the janitor is already sweeping; the hook must
	// still observe the eviction.
	time.Sleep(25 * time.Millisecond)
	var mu sync.Mutex
	evicted := make([]string, 0)
	s.SetEvictHook(func(id string) {
		mu.Lock()
		evicted = append(evicted, id)
		mu.Unlock()
	})

	assert.Eventually(t, func() bool {
		_, err := s.Snapshot("stale")
		return err == ErrSessionNotFound
	}, 2*time.Second, 10*time.Millisecond, "idle session was never evicted")

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, evicted, "stale")
}

func TestSessionStore_EvictionSkipsInFlightOperation(t *testing.T) {
	s := NewSessionStore(30*time.Millisecond, 10*time.Millisecond, testLogger())
	defer s.Close()
	require.NoError(t, s.Put(testSession("busy")))

	h, err := s.Acquire("busy")
	require.NoError(t, err)

	// Longer than the TTL: sweeps run while the operation is in flight.
	time.Sleep(100 * time.Millisecond)

	err = h.Update(func(sess *models.Session) error {
		sess.TotalScore = 1
		return nil
	})
	require.NoError(t, err)
	h.Release()

	// The touch on Acquire plus the skip keeps the session alive.
	snap, err := s.Snapshot("busy")
	require.NoError(t, err)
	assert.Equal(t, float64(1), snap.TotalScore)
}
