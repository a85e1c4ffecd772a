package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prepwise/interview-service/internal/intelligence"
	"github.com/prepwise/interview-service/internal/models"
	"github.com/prepwise/interview-service/internal/questionbank"
	"github.com/prepwise/interview-service/internal/store"
)

// recentCodeWindow is how many prior question codes are sent to the
// generator to bias against repetition.
const recentCodeWindow = 3

type sequencerService struct {
	store     *store.SessionStore
	generator intelligence.QuestionGenerator
	fallback  *questionbank.FallbackBank
	timers    *TimerManager
	onExpire  ExpireFunc
	logger    *slog.Logger
}

func NewSequencerService(
	sessionStore *store.SessionStore,
	generator intelligence.QuestionGenerator,
	fallback *questionbank.FallbackBank,
	timers *TimerManager,
	onExpire ExpireFunc,
	logger *slog.Logger,
) SequencerService {
	return &sequencerService{
		store:     sessionStore,
		generator: generator,
		fallback:  fallback,
		timers:    timers,
		onExpire:  onExpire,
		logger:    logger,
	}
}

// Next delivers the session's next question. The generation call runs
// outside the session state lock; the question is appended and the index
// advanced only after a question was actually obtained, so the index always
// equals the number of delivered questions.
func (s *sequencerService) Next(ctx context.Context, sessionID string) (*NextQuestionResult, error) {
	h, err := s.store.Acquire(sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to acquire session: %w", err)
	}
	defer h.Release()

	snap := h.Snapshot()
	switch snap.Status {
	case models.StatusCompleted:
		return nil, ErrSessionCompleted
	case models.StatusPaused:
		return nil, ErrSessionNotActive
	}

	// A delivered but unanswered question is redelivered as-is; the next
	// question only exists once the current one is answered.
	if pending := snap.PendingQuestion(); pending != nil {
		return &NextQuestionResult{
			Question:       pending,
			QuestionNumber: snap.CurrentQuestionIndex,
		}, nil
	}

	if snap.CurrentQuestionIndex >= snap.TotalQuestions {
		// Not an error: the caller asked past the end and gets the
		// completion signal.
		return &NextQuestionResult{Completed: true}, nil
	}

	category := PolicyFor(snap.Type).CategoryFor(snap)

	question, err := s.generator.GenerateQuestion(ctx, intelligence.GenerateRequest{
		Category:              category,
		Industry:              snap.Industry,
		Position:              snap.Position,
		Difficulty:            snap.Difficulty,
		PreviousQuestionCodes: snap.RecentQuestionCodes(recentCodeWindow),
		JobRequirements:       snap.JobRequirements,
		RoleCompetencies:      snap.RoleCompetencies,
	})
	if err != nil {
		s.logger.Warn("Question generation failed, trying fallback bank",
			"session_id", sessionID,
			"category", category,
			"error", err)

		fb, ok := s.fallback.Lookup(snap.Position, category, snap.Difficulty)
		if !ok {
			return nil, NewGenerationError(sessionID, snap.Position,
				string(category), string(snap.Difficulty), err)
		}
		question = fb
	} else {
		normalizeGenerated(question, category, snap.Difficulty)
	}

	var delivered models.Question
	commitErr := h.Update(func(sess *models.Session) error {
		// The session may have been paused or timed out into completion
		// while generation was in flight.
		switch sess.Status {
		case models.StatusCompleted:
			return ErrSessionCompleted
		case models.StatusPaused:
			return ErrSessionNotActive
		}
		if sess.PendingQuestion() != nil {
			return ErrQuestionPending
		}
		if sess.CurrentQuestionIndex >= sess.TotalQuestions {
			return ErrNoMoreQuestions
		}

		sess.Questions = append(sess.Questions, *question)
		sess.CurrentQuestionIndex = len(sess.Questions)
		sess.DraftAnswer = ""
		delivered = *question
		return nil
	})
	if commitErr != nil {
		if errors.Is(commitErr, ErrNoMoreQuestions) {
			return &NextQuestionResult{Completed: true}, nil
		}
		return nil, commitErr
	}

	if delivered.TimeLimit > 0 {
		s.timers.Start(sessionID, delivered.Code, delivered.TimeLimit, s.onExpire)
	}

	number := h.Snapshot().CurrentQuestionIndex

	s.logger.Info("Question delivered",
		"session_id", sessionID,
		"question_code", delivered.Code,
		"question_number", number,
		"category", delivered.Category)

	return &NextQuestionResult{
		Question:       &delivered,
		QuestionNumber: number,
	}, nil
}

// normalizeGenerated fills in the fields the generator is allowed to omit
// and pins category/difficulty to what the sequencer asked for.
func normalizeGenerated(q *models.Question, category models.QuestionCategory, difficulty models.DifficultyLevel) {
	if q.Code == "" {
		q.Code = uuid.NewString()
	}
	if q.Category == "" {
		q.Category = category
	}
	if q.Difficulty == "" {
		q.Difficulty = difficulty
	}
	if q.TimeLimit <= 0 {
		q.TimeLimit = 300
	}
	if q.MaxScore <= 0 {
		q.MaxScore = 10
	}
}
