package models

import "time"

// CategoryAverage is the mean evaluation score for one question category.
type CategoryAverage struct {
	Category  QuestionCategory `json:"category"`
	Average   float64          `json:"average"`
	MaxScore  float64          `json:"max_score"`
	Questions int              `json:"questions"`
}

// ResultsBundle is the read-only summary derived once a session completes.
// It is what the certificate/report renderer consumes; nothing in it is
// mutated after composition.
type ResultsBundle struct {
	SessionID  string          `json:"session_id"`
	Type       SessionType     `json:"type"`
	Industry   string          `json:"industry"`
	Position   string          `json:"position"`
	Difficulty DifficultyLevel `json:"difficulty"`

	TotalQuestions   int     `json:"total_questions"`
	TotalScore       float64 `json:"total_score"`
	MaxPossibleScore float64 `json:"max_possible_score"`
	Percentage       int     `json:"percentage"`
	Grade            string  `json:"grade"`

	CategoryAverages []CategoryAverage `json:"category_averages"`

	// Means over only the evaluations that reported the field; nil when
	// none did.
	JobFitScore         *float64 `json:"job_fit_score,omitempty"`
	RoleCompetencyScore *float64 `json:"role_competency_score,omitempty"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}
