package models

import (
	"time"
)

type SessionType string

const (
	SessionTechnical   SessionType = "technical"
	SessionBehavioral  SessionType = "behavioral"
	SessionMixed       SessionType = "mixed"
	SessionRoleBased   SessionType = "role-based"
	SessionJobSpecific SessionType = "job-specific"
)

type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusPaused    SessionStatus = "paused"
	StatusCompleted SessionStatus = "completed"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Session is one interview attempt: its delivered questions, recorded
// answers and running score totals. All mutation goes through the
// session store's per-session locks; a Session value handed out of the
// store is a snapshot.
type Session struct {
	ID                   string          `json:"id"`
	Type                 SessionType     `json:"type"`
	Industry             string          `json:"industry"`
	Position             string          `json:"position"`
	Difficulty           DifficultyLevel `json:"difficulty"`
	TotalQuestions       int             `json:"total_questions"`
	CurrentQuestionIndex int             `json:"current_question_index"`

	// Questions grows by one each time the sequencer delivers a question;
	// Answers grows by one each time the aggregator records a submission.
	// CurrentQuestionIndex always equals len(Questions).
	Questions []Question `json:"questions"`
	Answers   []Answer   `json:"answers"`

	// DraftAnswer is the in-progress answer text for the pending question,
	// auto-submitted by the answer timer on expiry when non-empty.
	DraftAnswer string `json:"draft_answer,omitempty"`

	StartTime time.Time     `json:"start_time"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Status    SessionStatus `json:"status"`

	TotalScore       float64 `json:"total_score"`
	MaxPossibleScore float64 `json:"max_possible_score"`

	// Sequencing hints, set only for job-specific / role-based sessions.
	JobRequirements  []string `json:"job_requirements,omitempty"`
	RoleCompetencies []string `json:"role_competencies,omitempty"`
}

// PendingQuestion returns the delivered-but-unanswered question, if any.
func (s *Session) PendingQuestion() *Question {
	if len(s.Questions) > len(s.Answers) {
		return &s.Questions[len(s.Questions)-1]
	}
	return nil
}

// IsComplete reports whether every question has been answered.
func (s *Session) IsComplete() bool {
	return s.TotalQuestions > 0 && len(s.Answers) == s.TotalQuestions
}

// RecentQuestionCodes returns the codes of the last n delivered questions,
// newest last. Used to bias the generator against repetition.
func (s *Session) RecentQuestionCodes(n int) []string {
	start := len(s.Questions) - n
	if start < 0 {
		start = 0
	}
	codes := make([]string, 0, len(s.Questions)-start)
	for _, q := range s.Questions[start:] {
		codes = append(codes, q.Code)
	}
	return codes
}

// Clone returns a deep copy safe to hand outside the store locks.
func (s *Session) Clone() *Session {
	c := *s
	c.Questions = make([]Question, len(s.Questions))
	copy(c.Questions, s.Questions)
	c.Answers = make([]Answer, len(s.Answers))
	for i, a := range s.Answers {
		c.Answers[i] = *a.Clone()
	}
	c.JobRequirements = append([]string(nil), s.JobRequirements...)
	c.RoleCompetencies = append([]string(nil), s.RoleCompetencies...)
	if s.EndTime != nil {
		t := *s.EndTime
		c.EndTime = &t
	}
	return &c
}
