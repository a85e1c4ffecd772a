package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/prepwise/interview-service/internal/cache"
	evt "github.com/prepwise/interview-service/internal/events"
	"github.com/prepwise/interview-service/internal/models"
	"github.com/prepwise/interview-service/internal/store"
)

// GradeForPercentage maps a rounded percentage onto the letter grade
// ladder. The ladder is contiguous: every percentage maps to exactly one
// grade.
func GradeForPercentage(percentage int) string {
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 85:
		return "A"
	case percentage >= 80:
		return "A-"
	case percentage >= 75:
		return "B+"
	case percentage >= 70:
		return "B"
	case percentage >= 65:
		return "B-"
	case percentage >= 60:
		return "C+"
	case percentage >= 55:
		return "C"
	case percentage >= 50:
		return "C-"
	default:
		return "F"
	}
}

// resultsComposer derives the read-only results bundle for completed
// sessions, caches it and publishes the completion event consumed by the
// certificate renderer.
type resultsComposer struct {
	cache     cache.CacheService
	cacheTTL  time.Duration
	publisher evt.EventPublisher
	logger    *slog.Logger
}

func newResultsComposer(c cache.CacheService, cacheTTL time.Duration, publisher evt.EventPublisher, logger *slog.Logger) *resultsComposer {
	return &resultsComposer{
		cache:     c,
		cacheTTL:  cacheTTL,
		publisher: publisher,
		logger:    logger,
	}
}

func resultsCacheKey(sessionID string) string {
	return "interview:results:" + sessionID
}

// Compose derives the bundle from a completed session snapshot.
func (rc *resultsComposer) Compose(session *models.Session) *models.ResultsBundle {
	percentage := 0
	if session.MaxPossibleScore > 0 {
		percentage = int(math.Round(session.TotalScore / session.MaxPossibleScore * 100))
	}

	completedAt := time.Now()
	if session.EndTime != nil {
		completedAt = *session.EndTime
	}

	bundle := &models.ResultsBundle{
		SessionID:        session.ID,
		Type:             session.Type,
		Industry:         session.Industry,
		Position:         session.Position,
		Difficulty:       session.Difficulty,
		TotalQuestions:   session.TotalQuestions,
		TotalScore:       session.TotalScore,
		MaxPossibleScore: session.MaxPossibleScore,
		Percentage:       percentage,
		Grade:            GradeForPercentage(percentage),
		CategoryAverages: categoryAverages(session),
		StartedAt:        session.StartTime,
		CompletedAt:      completedAt,
	}

	bundle.JobFitScore = meanOverPresent(session, func(e *models.Evaluation) *float64 {
		return e.JobFitScore
	})
	bundle.RoleCompetencyScore = meanOverPresent(session, func(e *models.Evaluation) *float64 {
		return e.RoleCompetencyScore
	})

	return bundle
}

// OnSessionCompleted runs once, when the Nth answer is recorded: it
// composes the bundle, caches it and hands it to the renderer via the
// completion event. Failures here are logged, never propagated into the
// submit path.
func (rc *resultsComposer) OnSessionCompleted(ctx context.Context, session *models.Session) *models.ResultsBundle {
	bundle := rc.Compose(session)

	if err := rc.cache.Set(ctx, resultsCacheKey(session.ID), bundle, rc.cacheTTL); err != nil {
		rc.logger.Warn("Failed to cache results bundle",
			"session_id", session.ID, "error", err)
	}

	if err := rc.publisher.PublishSessionEvent(ctx, evt.NewSessionCompletedEvent(bundle)); err != nil {
		rc.logger.Error("Failed to publish session completed event",
			"session_id", session.ID, "error", err)
	}

	rc.logger.Info("Session results composed",
		"session_id", session.ID,
		"percentage", bundle.Percentage,
		"grade", bundle.Grade)

	return bundle
}

// categoryAverages groups evaluation scores by question category. Grouping
// is by category, not by raw score value.
func categoryAverages(session *models.Session) []models.CategoryAverage {
	questionsByCode := make(map[string]*models.Question, len(session.Questions))
	for i := range session.Questions {
		questionsByCode[session.Questions[i].Code] = &session.Questions[i]
	}

	type bucket struct {
		total    float64
		maxTotal float64
		count    int
	}
	buckets := make(map[models.QuestionCategory]*bucket)
	order := make([]models.QuestionCategory, 0)

	for i := range session.Answers {
		answer := &session.Answers[i]
		if answer.Evaluation == nil {
			continue
		}
		question, ok := questionsByCode[answer.QuestionCode]
		if !ok {
			continue
		}
		b, ok := buckets[question.Category]
		if !ok {
			b = &bucket{}
			buckets[question.Category] = b
			order = append(order, question.Category)
		}
		b.total += answer.Evaluation.Score
		b.maxTotal += answer.Evaluation.MaxScore
		b.count++
	}

	averages := make([]models.CategoryAverage, 0, len(order))
	for _, category := range order {
		b := buckets[category]
		averages = append(averages, models.CategoryAverage{
			Category:  category,
			Average:   b.total / float64(b.count),
			MaxScore:  b.maxTotal / float64(b.count),
			Questions: b.count,
		})
	}
	return averages
}

// meanOverPresent averages an optional evaluation field over only the
// evaluations that report it; nil when none do.
func meanOverPresent(session *models.Session, field func(*models.Evaluation) *float64) *float64 {
	var total float64
	count := 0
	for i := range session.Answers {
		e := session.Answers[i].Evaluation
		if e == nil {
			continue
		}
		if v := field(e); v != nil {
			total += *v
			count++
		}
	}
	if count == 0 {
		return nil
	}
	mean := total / float64(count)
	return &mean
}

// resultsService is the read surface over composed results.
type resultsService struct {
	store    *store.SessionStore
	composer *resultsComposer
	logger   *slog.Logger
}

func NewResultsService(sessionStore *store.SessionStore, composer *resultsComposer, logger *slog.Logger) ResultsService {
	return &resultsService{
		store:    sessionStore,
		composer: composer,
		logger:   logger,
	}
}

func (s *resultsService) Results(ctx context.Context, sessionID string) (*models.ResultsBundle, error) {
	var cached models.ResultsBundle
	err := s.composer.cache.Get(ctx, resultsCacheKey(sessionID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Results cache read failed", "session_id", sessionID, "error", err)
	}

	session, err := s.store.Snapshot(sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if session.Status != models.StatusCompleted {
		return nil, ErrSessionNotCompleted
	}

	bundle := s.composer.Compose(session)
	if err := s.composer.cache.Set(ctx, resultsCacheKey(sessionID), bundle, s.composer.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache results bundle", "session_id", sessionID, "error", err)
	}
	return bundle, nil
}
