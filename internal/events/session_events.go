package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/prepwise/interview-service/internal/models"
)

// EventType represents different types of interview session events
type EventType string

const (
	EventSessionStarted   EventType = "interview.session_started"
	EventSessionPaused    EventType = "interview.session_paused"
	EventSessionResumed   EventType = "interview.session_resumed"
	EventSessionCompleted EventType = "interview.session_completed"
)

// SessionEvent is the base event structure for all interview session events
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SessionStartedEvent struct {
	SessionID      string                 `json:"session_id"`
	Type           models.SessionType     `json:"session_type"`
	Industry       string                 `json:"industry"`
	Position       string                 `json:"position"`
	Difficulty     models.DifficultyLevel `json:"difficulty"`
	TotalQuestions int                    `json:"total_questions"`
	StartedAt      time.Time              `json:"started_at"`
}

type SessionPausedEvent struct {
	SessionID string    `json:"session_id"`
	PausedAt  time.Time `json:"paused_at"`
}

type SessionResumedEvent struct {
	SessionID string    `json:"session_id"`
	ResumedAt time.Time `json:"resumed_at"`
}

// SessionCompletedEvent carries the full results bundle one-way to the
// certificate/report renderer.
type SessionCompletedEvent struct {
	SessionID   string                `json:"session_id"`
	CompletedAt time.Time             `json:"completed_at"`
	Results     *models.ResultsBundle `json:"results"`
}

// Event factory functions

func NewSessionStartedEvent(session *models.Session) *SessionEvent {
	return &SessionEvent{
		ID:        generateEventID(),
		Type:      EventSessionStarted,
		Timestamp: time.Now(),
		Source:    "interview-service",
		Version:   "1.0",
		Data: SessionStartedEvent{
			SessionID:      session.ID,
			Type:           session.Type,
			Industry:       session.Industry,
			Position:       session.Position,
			Difficulty:     session.Difficulty,
			TotalQuestions: session.TotalQuestions,
			StartedAt:      session.StartTime,
		},
	}
}

func NewSessionPausedEvent(sessionID string) *SessionEvent {
	return &SessionEvent{
		ID:        generateEventID(),
		Type:      EventSessionPaused,
		Timestamp: time.Now(),
		Source:    "interview-service",
		Version:   "1.0",
		Data: SessionPausedEvent{
			SessionID: sessionID,
			PausedAt:  time.Now(),
		},
	}
}

func NewSessionResumedEvent(sessionID string) *SessionEvent {
	return &SessionEvent{
		ID:        generateEventID(),
		Type:      EventSessionResumed,
		Timestamp: time.Now(),
		Source:    "interview-service",
		Version:   "1.0",
		Data: SessionResumedEvent{
			SessionID: sessionID,
			ResumedAt: time.Now(),
		},
	}
}

func NewSessionCompletedEvent(results *models.ResultsBundle) *SessionEvent {
	return &SessionEvent{
		ID:        generateEventID(),
		Type:      EventSessionCompleted,
		Timestamp: time.Now(),
		Source:    "interview-service",
		Version:   "1.0",
		Data: SessionCompletedEvent{
			SessionID:   results.SessionID,
			CompletedAt: results.CompletedAt,
			Results:     results,
		},
	}
}

func generateEventID() string {
	return uuid.NewString()
}
