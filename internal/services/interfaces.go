package services

import (
	"context"

	"github.com/prepwise/interview-service/internal/models"
)

// ===== REQUEST / RESPONSE TYPES =====

// CreateSessionRequest configures a new interview session.
type CreateSessionRequest struct {
	Type             models.SessionType     `json:"type" validate:"required,session_type"`
	Industry         string                 `json:"industry" validate:"required,min=1,max=100"`
	Position         string                 `json:"position" validate:"required,min=1,max=100"`
	Difficulty       models.DifficultyLevel `json:"difficulty" validate:"required,difficulty_level"`
	TotalQuestions   int                    `json:"total_questions" validate:"required,min=1,max=20"`
	JobRequirements  []string               `json:"job_requirements,omitempty" validate:"omitempty,max=50,dive,min=1"`
	RoleCompetencies []string               `json:"role_competencies,omitempty" validate:"omitempty,max=50,dive,min=1"`
}

// SubmitAnswerRequest records one answer against the pending question.
type SubmitAnswerRequest struct {
	QuestionCode string `json:"question_code" validate:"required"`
	Text         string `json:"text" validate:"required,min=1"`
	TimeSpent    int    `json:"time_spent" validate:"min=0"`
}

// NextQuestionResult is either the next (or still-pending) question, or the
// completion signal when every question has been delivered and answered.
type NextQuestionResult struct {
	Question       *models.Question `json:"question,omitempty"`
	QuestionNumber int              `json:"question_number,omitempty"` // 1-based
	Completed      bool             `json:"completed"`
}

// SubmitResult is the outcome of recording one answer.
type SubmitResult struct {
	Evaluation *models.Evaluation `json:"evaluation"`
	Session    *models.Session    `json:"session"`
	IsComplete bool               `json:"is_complete"`
}

// ===== SERVICE INTERFACES =====

// SessionService owns session lifecycle: creation, pause/resume and reads.
type SessionService interface {
	Create(ctx context.Context, req *CreateSessionRequest) (*models.Session, error)
	Get(ctx context.Context, sessionID string) (*models.Session, error)

	// Pause and Resume return false, without error, when the session is
	// not in the expected source state.
	Pause(ctx context.Context, sessionID string) (bool, error)
	Resume(ctx context.Context, sessionID string) (bool, error)

	// SaveDraft stores the in-progress answer text picked up by the
	// answer timer on expiry.
	SaveDraft(ctx context.Context, sessionID, text string) error

	// TimeRemaining reports the pending question's countdown in seconds.
	TimeRemaining(ctx context.Context, sessionID string) (int, bool, error)
}

// SequencerService decides and delivers the next question for a session.
type SequencerService interface {
	Next(ctx context.Context, sessionID string) (*NextQuestionResult, error)
}

// EvaluationService validates, scores and records submitted answers.
type EvaluationService interface {
	Submit(ctx context.Context, sessionID string, req *SubmitAnswerRequest) (*SubmitResult, error)
}

// ResultsService composes the read-only results bundle for a completed
// session.
type ResultsService interface {
	Results(ctx context.Context, sessionID string) (*models.ResultsBundle, error)
}

// ServiceManager wires the engine's services over one shared store.
type ServiceManager interface {
	Session() SessionService
	Sequencer() SequencerService
	Evaluation() EvaluationService
	Results() ResultsService
	Close()
}
