package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/prepwise/interview-service/internal/errors"
	"github.com/prepwise/interview-service/internal/intelligence"
	"github.com/prepwise/interview-service/internal/models"
	"github.com/prepwise/interview-service/internal/store"
	"github.com/prepwise/interview-service/internal/validator"
)

// neutralFeedback is the documented default substituted when the answer
// evaluator is unavailable. The answer is recorded, the session advances,
// and the evaluation is marked degraded instead of failing the submission.
const neutralFeedback = "Your answer was recorded, but automatic evaluation " +
	"was unavailable for this question. No points were awarded for it."

type evaluationService struct {
	store     *store.SessionStore
	evaluator intelligence.AnswerEvaluator
	timers    *TimerManager
	results   *resultsComposer
	logger    *slog.Logger
	validator *validator.Validator
}

func NewEvaluationService(
	sessionStore *store.SessionStore,
	evaluator intelligence.AnswerEvaluator,
	timers *TimerManager,
	results *resultsComposer,
	logger *slog.Logger,
	v *validator.Validator,
) EvaluationService {
	return &evaluationService{
		store:     sessionStore,
		evaluator: evaluator,
		timers:    timers,
		results:   results,
		logger:    logger,
		validator: v,
	}
}

func (s *evaluationService) Submit(ctx context.Context, sessionID string, req *SubmitAnswerRequest) (*SubmitResult, error) {
	if err := s.validator.Validate(req); err != nil {
		if verrs := apperrors.ToValidationErrors(err); len(verrs) > 0 {
			return nil, verrs
		}
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return s.submit(ctx, sessionID, req, false)
}

// AutoSubmit is the timer expiry path: it submits the session's draft
// answer for the question whose countdown ran out. It reuses the exact
// same commit path as a manual submission, so a manual submit racing the
// timeout is resolved by the per-session operation lock: the first writer
// records the answer, the second finds nothing pending and no-ops.
func (s *evaluationService) AutoSubmit(sessionID, questionCode string) {
	ctx := context.Background()

	snap, err := s.store.Snapshot(sessionID)
	if err != nil {
		return
	}
	pending := snap.PendingQuestion()
	if snap.Status != models.StatusActive || pending == nil || pending.Code != questionCode {
		return
	}
	if snap.DraftAnswer == "" {
		// Nothing to submit; the question stays pending for a manual
		// submission.
		s.logger.Info("Timer expired with empty draft, leaving question pending",
			"session_id", sessionID,
			"question_code", questionCode)
		return
	}

	req := &SubmitAnswerRequest{
		QuestionCode: questionCode,
		Text:         snap.DraftAnswer,
		TimeSpent:    pending.TimeLimit,
	}

	if _, err := s.submit(ctx, sessionID, req, true); err != nil {
		// A concurrent manual submission winning the race lands here as a
		// stale/no-pending rejection; that is the intended outcome.
		if errors.Is(err, ErrStaleSubmission) || errors.Is(err, ErrNoPendingQuestion) ||
			errors.Is(err, ErrSessionNotActive) || errors.Is(err, ErrSessionCompleted) {
			s.logger.Debug("Auto-submit superseded", "session_id", sessionID, "error", err)
			return
		}
		s.logger.Error("Auto-submit failed", "session_id", sessionID, "error", err)
	}
}

func (s *evaluationService) submit(ctx context.Context, sessionID string, req *SubmitAnswerRequest, auto bool) (*SubmitResult, error) {
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

	pending := snap.PendingQuestion()
	if pending == nil {
		return nil, ErrNoPendingQuestion
	}
	if pending.Code != req.QuestionCode {
		return nil, ErrStaleSubmission
	}

	timeSpent := req.TimeSpent
	if timeSpent > pending.TimeLimit {
		timeSpent = pending.TimeLimit
	}

	evaluation := s.evaluate(ctx, snap, pending, req.Text, timeSpent)

	answer := models.Answer{
		QuestionCode:  pending.Code,
		Text:          req.Text,
		TimeSpent:     timeSpent,
		SubmittedAt:   time.Now(),
		AutoSubmitted: auto,
		Evaluation:    evaluation,
	}

	completed := false
	commitErr := h.Update(func(sess *models.Session) error {
		switch sess.Status {
		case models.StatusCompleted:
			return ErrSessionCompleted
		case models.StatusPaused:
			return ErrSessionNotActive
		}
		p := sess.PendingQuestion()
		if p == nil {
			return ErrNoPendingQuestion
		}
		if p.Code != req.QuestionCode {
			return ErrStaleSubmission
		}

		sess.Answers = append(sess.Answers, answer)
		sess.TotalScore += evaluation.Score
		sess.MaxPossibleScore += evaluation.MaxScore
		sess.DraftAnswer = ""

		if sess.IsComplete() {
			sess.Status = models.StatusCompleted
			now := time.Now()
			sess.EndTime = &now
			completed = true
		}
		return nil
	})
	if commitErr != nil {
		// The rejected question is still pending, so its countdown must
		// stay alive: a pause that landed mid-evaluation keeps the frozen
		// timer for resume.
		return nil, commitErr
	}

	// Cancel only once the answer is committed. An expiry that fired
	// during evaluation is already queued behind the operation lock and
	// no-ops against the recorded answer.
	s.timers.Cancel(sessionID)

	final := h.Snapshot()

	s.logger.Info("Answer recorded",
		"session_id", sessionID,
		"question_code", pending.Code,
		"score", evaluation.Score,
		"max_score", evaluation.MaxScore,
		"degraded", evaluation.Degraded,
		"auto_submitted", auto,
		"complete", completed)

	if completed {
		s.results.OnSessionCompleted(ctx, final)
	}

	return &SubmitResult{
		Evaluation: evaluation,
		Session:    final,
		IsComplete: completed,
	}, nil
}

// evaluate calls the evaluation collaborator outside the session state
// lock, degrading to the neutral default on failure and clamping the
// returned score regardless of collaborator output.
func (s *evaluationService) evaluate(ctx context.Context, sess *models.Session, question *models.Question, answerText string, timeSpent int) *models.Evaluation {
	evaluation, err := s.evaluator.EvaluateAnswer(ctx, intelligence.EvaluateRequest{
		Question:         *question,
		AnswerText:       answerText,
		TimeSpent:        timeSpent,
		JobRequirements:  sess.JobRequirements,
		RoleCompetencies: sess.RoleCompetencies,
	})
	if err != nil {
		s.logger.Warn("Answer evaluation failed, substituting neutral default",
			"session_id", sess.ID,
			"question_code", question.Code,
			"error", err)
		evaluation = &models.Evaluation{
			Score:    0,
			Feedback: neutralFeedback,
			Degraded: true,
			Notes:    fmt.Sprintf("evaluator unavailable: %v", err),
		}
	}

	evaluation.QuestionCode = question.Code
	evaluation.MaxScore = question.MaxScore
	evaluation.EvaluatedAt = time.Now()

	// Defensive clamp: collaborator output is never trusted for bounds.
	if evaluation.Score < 0 {
		evaluation.Score = 0
	}
	if evaluation.Score > question.MaxScore {
		evaluation.Score = question.MaxScore
	}
	clampOptional(evaluation.JobFitScore)
	clampOptional(evaluation.RoleCompetencyScore)

	return evaluation
}

// clampOptional bounds an optional 0-100 aggregate score in place.
func clampOptional(v *float64) {
	if v == nil {
		return
	}
	if *v < 0 {
		*v = 0
	}
	if *v > 100 {
		*v = 100
	}
}
