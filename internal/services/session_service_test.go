package services

import (
	"context"
	"testing"

	"github.com/prepwise/interview-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_Create(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	t.Run("valid config", func(t *testing.T) {
		session, err := e.session.Create(ctx, validCreateRequest())
		require.NoError(t, err)

		assert.NotEmpty(t, session.ID)
		assert.Equal(t, models.StatusActive, session.Status)
		assert.Zero(t, session.CurrentQuestionIndex)
		assert.Empty(t, session.Questions)
		assert.Empty(t, session.Answers)
		assert.Zero(t, session.TotalScore)
		assert.Zero(t, session.MaxPossibleScore)
		assert.False(t, session.StartTime.IsZero())
	})

	t.Run("publishes started event", func(t *testing.T) {
		e.publisher.ClearEvents()
		_, err := e.session.Create(ctx, validCreateRequest())
		require.NoError(t, err)

		events := e.publisher.GetPublishedEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "interview.session_started", string(events[0].Type))
	})

	invalid := []struct {
		name   string
		mutate func(req *CreateSessionRequest)
		field  string
	}{
		{"unknown type", func(r *CreateSessionRequest) { r.Type = "casual" }, "type"},
		{"unknown difficulty", func(r *CreateSessionRequest) { r.Difficulty = "extreme" }, "difficulty"},
		{"zero questions", func(r *CreateSessionRequest) { r.TotalQuestions = 0 }, "total_questions"},
		{"too many questions", func(r *CreateSessionRequest) { r.TotalQuestions = 21 }, "total_questions"},
		{"empty industry", func(r *CreateSessionRequest) { r.Industry = "" }, "industry"},
		{"empty position", func(r *CreateSessionRequest) { r.Position = "" }, "position"},
	}

	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(req)

			_, err := e.session.Create(ctx, req)
			require.Error(t, err)
			require.True(t, IsValidation(err), "expected validation error, got %v", err)

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			found := false
			for _, ve := range verrs {
				if ve.Field == tc.field {
					found = true
				}
			}
			assert.True(t, found, "expected a violation on field %q in %v", tc.field, verrs)
		})
	}

	t.Run("multiple violations are all reported", func(t *testing.T) {
		req := validCreateRequest()
		req.Industry = ""
		req.TotalQuestions = 50

		_, err := e.session.Create(ctx, req)
		require.Error(t, err)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 2)
	})
}

func TestSessionService_PauseResume(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	session, question := e.startSession(t, validCreateRequest())

	t.Run("pause active session", func(t *testing.T) {
		paused, err := e.session.Pause(ctx, session.ID)
		require.NoError(t, err)
		assert.True(t, paused)

		snap, err := e.session.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPaused, snap.Status)
		// Pause leaves question and answer data untouched.
		assert.Len(t, snap.Questions, 1)
		assert.Empty(t, snap.Answers)
	})

	t.Run("pause is a no-op on a paused session", func(t *testing.T) {
		paused, err := e.session.Pause(ctx, session.ID)
		require.NoError(t, err)
		assert.False(t, paused)
	})

	t.Run("paused session rejects submissions", func(t *testing.T) {
		_, err := e.evaluation.Submit(ctx, session.ID, &SubmitAnswerRequest{
			QuestionCode: question.Code,
			Text:         "answer while paused",
			TimeSpent:    5,
		})
		assert.ErrorIs(t, err, ErrSessionNotActive)
	})

	t.Run("paused session rejects question delivery", func(t *testing.T) {
		_, err := e.sequencer.Next(ctx, session.ID)
		assert.ErrorIs(t, err, ErrSessionNotActive)
	})

	t.Run("resume paused session", func(t *testing.T) {
		resumed, err := e.session.Resume(ctx, session.ID)
		require.NoError(t, err)
		assert.True(t, resumed)

		snap, err := e.session.Get(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusActive, snap.Status)
	})

	t.Run("resume is a no-op on an active session", func(t *testing.T) {
		resumed, err := e.session.Resume(ctx, session.ID)
		require.NoError(t, err)
		assert.False(t, resumed)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := e.session.Pause(ctx, "missing")
		assert.ErrorIs(t, err, ErrSessionNotFound)
		_, err = e.session.Resume(ctx, "missing")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestSessionService_PauseAfterCompletionIsRejected(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.TotalQuestions = 1
	session, question := e.startSession(t, req)
	e.answerAll(t, session.ID, question)

	paused, err := e.session.Pause(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, paused, "completed session must not be pausable")

	snap, err := e.session.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, snap.Status)
}

func TestSessionService_SaveDraft(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	session, _ := e.startSession(t, validCreateRequest())

	require.NoError(t, e.session.SaveDraft(ctx, session.ID, "work in progress"))

	snap, err := e.session.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "work in progress", snap.DraftAnswer)

	t.Run("rejected without a pending question", func(t *testing.T) {
		fresh, err := e.session.Create(ctx, validCreateRequest())
		require.NoError(t, err)
		err = e.session.SaveDraft(ctx, fresh.ID, "text")
		assert.ErrorIs(t, err, ErrNoPendingQuestion)
	})
}

func TestSessionService_TimeRemaining(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	session, _ := e.startSession(t, validCreateRequest())

	remaining, running, err := e.session.TimeRemaining(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, running)
	assert.Greater(t, remaining, 0)

	_, _, err = e.session.TimeRemaining(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
