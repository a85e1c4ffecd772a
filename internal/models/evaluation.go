package models

import "time"

// Evaluation is the scored assessment of one submitted answer. Scores are
// clamped into [0, MaxScore] before an Evaluation is committed to a
// session, regardless of what the evaluator returned.
type Evaluation struct {
	QuestionCode string  `json:"question_code"`
	Score        float64 `json:"score"`
	MaxScore     float64 `json:"max_score"`
	Feedback     string  `json:"feedback"`

	Strengths   []string `json:"strengths,omitempty"`
	Weaknesses  []string `json:"weaknesses,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`

	// Dimensions holds multi-dimensional sub-scores (e.g. clarity,
	// relevance, depth) as returned by the evaluator.
	Dimensions map[string]float64 `json:"dimensions,omitempty"`

	// Present only for job-specific / role-based sessions.
	JobFitScore         *float64 `json:"job_fit_score,omitempty"`
	RoleCompetencyScore *float64 `json:"role_competency_score,omitempty"`

	// Degraded marks a neutral default substituted after an evaluator
	// failure. The session still progresses; the failure is recorded here
	// instead of surfacing to the caller.
	Degraded bool   `json:"degraded,omitempty"`
	Notes    string `json:"notes,omitempty"`

	EvaluatedAt time.Time `json:"evaluated_at"`
}

func (e *Evaluation) Clone() *Evaluation {
	c := *e
	c.Strengths = append([]string(nil), e.Strengths...)
	c.Weaknesses = append([]string(nil), e.Weaknesses...)
	c.Suggestions = append([]string(nil), e.Suggestions...)
	if e.Dimensions != nil {
		c.Dimensions = make(map[string]float64, len(e.Dimensions))
		for k, v := range e.Dimensions {
			c.Dimensions[k] = v
		}
	}
	if e.JobFitScore != nil {
		v := *e.JobFitScore
		c.JobFitScore = &v
	}
	if e.RoleCompetencyScore != nil {
		v := *e.RoleCompetencyScore
		c.RoleCompetencyScore = &v
	}
	return &c
}
