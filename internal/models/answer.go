package models

import "time"

// Answer is one recorded submission, matched to its question by code.
// Exactly one Answer exists per delivered Question and it is never
// overwritten; the attached Evaluation is written in the same commit.
type Answer struct {
	QuestionCode  string    `json:"question_code"`
	Text          string    `json:"text"`
	TimeSpent     int       `json:"time_spent"` // seconds, capped at the question's time limit
	SubmittedAt   time.Time `json:"submitted_at"`
	AutoSubmitted bool      `json:"auto_submitted,omitempty"`

	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

func (a *Answer) Clone() *Answer {
	c := *a
	if a.Evaluation != nil {
		c.Evaluation = a.Evaluation.Clone()
	}
	return &c
}
