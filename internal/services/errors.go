package services

import (
	"errors"
	"fmt"

	apperrors "github.com/prepwise/interview-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Session lifecycle errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionCompleted = errors.New("session already completed")
	ErrSessionNotActive = errors.New("session is not active")
	ErrSessionNotPaused = errors.New("session is not paused")

	// Sequencer errors
	ErrNoMoreQuestions    = errors.New("all questions have been delivered")
	ErrQuestionPending    = errors.New("current question has not been answered")
	ErrNoFallbackQuestion = errors.New("question generation failed and no fallback question exists")

	// Aggregator errors
	ErrStaleSubmission   = errors.New("answer does not match the current question")
	ErrNoPendingQuestion = errors.New("no pending question to answer")

	// Results errors
	ErrSessionNotCompleted = errors.New("session is not completed")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// GenerationError wraps an unrecoverable question generation failure:
// the generator failed and the fallback bank had no entry for the
// session's (position, category, difficulty).
type GenerationError struct {
	SessionID  string `json:"session_id"`
	Position   string `json:"position"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Cause      error  `json:"-"`
}

func (ge *GenerationError) Error() string {
	return fmt.Sprintf("question generation failed for session %s (%s/%s/%s): %v",
		ge.SessionID, ge.Position, ge.Category, ge.Difficulty, ge.Cause)
}

func (ge *GenerationError) Unwrap() error {
	return ErrNoFallbackQuestion
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewGenerationError(sessionID, position, category, difficulty string, cause error) *GenerationError {
	return &GenerationError{
		SessionID:  sessionID,
		Position:   position,
		Category:   category,
		Difficulty: difficulty,
		Cause:      cause,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsFinalized checks if error represents a mutation attempted on a
// completed session
func IsFinalized(err error) bool {
	return errors.Is(err, ErrSessionCompleted)
}

// IsConflict checks if error represents a state conflict the client can
// correct and retry
func IsConflict(err error) bool {
	return errors.Is(err, ErrStaleSubmission) ||
		errors.Is(err, ErrQuestionPending) ||
		errors.Is(err, ErrNoPendingQuestion) ||
		errors.Is(err, ErrSessionNotActive) ||
		errors.Is(err, ErrSessionNotPaused)
}
