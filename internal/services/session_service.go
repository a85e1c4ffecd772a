package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/prepwise/interview-service/internal/errors"
	evt "github.com/prepwise/interview-service/internal/events"
	"github.com/prepwise/interview-service/internal/models"
	"github.com/prepwise/interview-service/internal/store"
	"github.com/prepwise/interview-service/internal/validator"
)

type sessionService struct {
	store     *store.SessionStore
	timers    *TimerManager
	publisher evt.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewSessionService(
	sessionStore *store.SessionStore,
	timers *TimerManager,
	publisher evt.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) SessionService {
	return &sessionService{
		store:     sessionStore,
		timers:    timers,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *sessionService) Create(ctx context.Context, req *CreateSessionRequest) (*models.Session, error) {
	s.logger.Info("Creating interview session",
		"type", req.Type,
		"position", req.Position,
		"difficulty", req.Difficulty,
		"total_questions", req.TotalQuestions)

	if err := s.validator.Validate(req); err != nil {
		if verrs := apperrors.ToValidationErrors(err); len(verrs) > 0 {
			return nil, verrs
		}
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	session := &models.Session{
		ID:               uuid.NewString(),
		Type:             req.Type,
		Industry:         req.Industry,
		Position:         req.Position,
		Difficulty:       req.Difficulty,
		TotalQuestions:   req.TotalQuestions,
		Questions:        make([]models.Question, 0, req.TotalQuestions),
		Answers:          make([]models.Answer, 0, req.TotalQuestions),
		StartTime:        time.Now(),
		Status:           models.StatusActive,
		JobRequirements:  append([]string(nil), req.JobRequirements...),
		RoleCompetencies: append([]string(nil), req.RoleCompetencies...),
	}

	if err := s.store.Put(session); err != nil {
		return nil, fmt.Errorf("failed to register session: %w", err)
	}

	if err := s.publisher.PublishSessionEvent(ctx, evt.NewSessionStartedEvent(session)); err != nil {
		s.logger.Error("Failed to publish session started event",
			"session_id", session.ID, "error", err)
	}

	s.logger.Info("Interview session created", "session_id", session.ID)
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.store.Snapshot(sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return session, nil
}

// Pause moves an active session to paused and freezes its question timer.
// Returns false when the session is not active; question and answer data
// are never touched.
func (s *sessionService) Pause(ctx context.Context, sessionID string) (bool, error) {
	paused := false
	err := s.store.UpdateState(sessionID, func(sess *models.Session) error {
		if sess.Status != models.StatusActive {
			return nil
		}
		sess.Status = models.StatusPaused
		paused = true
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return false, ErrSessionNotFound
		}
		return false, fmt.Errorf("failed to pause session: %w", err)
	}

	if paused {
		s.timers.Pause(sessionID)
		s.logger.Info("Session paused", "session_id", sessionID)
		if err := s.publisher.PublishSessionEvent(ctx, evt.NewSessionPausedEvent(sessionID)); err != nil {
			s.logger.Error("Failed to publish session paused event",
				"session_id", sessionID, "error", err)
		}
	}
	return paused, nil
}

// Resume moves a paused session back to active and restarts its timer from
// the frozen remaining value. Returns false when the session is not paused.
func (s *sessionService) Resume(ctx context.Context, sessionID string) (bool, error) {
	resumed := false
	err := s.store.UpdateState(sessionID, func(sess *models.Session) error {
		if sess.Status != models.StatusPaused {
			return nil
		}
		sess.Status = models.StatusActive
		resumed = true
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return false, ErrSessionNotFound
		}
		return false, fmt.Errorf("failed to resume session: %w", err)
	}

	if resumed {
		s.timers.Resume(sessionID)
		s.logger.Info("Session resumed", "session_id", sessionID)
		if err := s.publisher.PublishSessionEvent(ctx, evt.NewSessionResumedEvent(sessionID)); err != nil {
			s.logger.Error("Failed to publish session resumed event",
				"session_id", sessionID, "error", err)
		}
	}
	return resumed, nil
}

// SaveDraft records the in-progress answer text for the pending question.
// The answer timer auto-submits this text if the countdown expires.
func (s *sessionService) SaveDraft(ctx context.Context, sessionID, text string) error {
	err := s.store.UpdateState(sessionID, func(sess *models.Session) error {
		if sess.Status == models.StatusCompleted {
			return ErrSessionCompleted
		}
		if sess.Status != models.StatusActive {
			return ErrSessionNotActive
		}
		if sess.PendingQuestion() == nil {
			return ErrNoPendingQuestion
		}
		sess.DraftAnswer = text
		return nil
	})
	if errors.Is(err, store.ErrSessionNotFound) {
		return ErrSessionNotFound
	}
	return err
}

func (s *sessionService) TimeRemaining(ctx context.Context, sessionID string) (int, bool, error) {
	if _, err := s.store.Snapshot(sessionID); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return 0, false, ErrSessionNotFound
		}
		return 0, false, fmt.Errorf("failed to read session: %w", err)
	}
	remaining, running := s.timers.Remaining(sessionID)
	return remaining, running, nil
}
