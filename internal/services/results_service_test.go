package services

import (
	"context"
	"testing"
	"time"

	"github.com/prepwise/interview-service/internal/cache"
	evt "github.com/prepwise/interview-service/internal/events"
	"github.com/prepwise/interview-service/internal/intelligence"
	"github.com/prepwise/interview-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeForPercentage(t *testing.T) {
	cases := []struct {
		percentage int
		grade      string
	}{
		{100, "A+"},
		{90, "A+"},
		{89, "A"},
		{85, "A"},
		{84, "A-"},
		{80, "A-"},
		{79, "B+"},
		{75, "B+"},
		{74, "B"},
		{70, "B"},
		{69, "B-"},
		{65, "B-"},
		{64, "C+"},
		{60, "C+"},
		{59, "C"},
		{55, "C"},
		{54, "C-"},
		{50, "C-"},
		{49, "F"},
		{0, "F"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.grade, GradeForPercentage(tc.percentage), "percentage %d", tc.percentage)
	}
}

func TestCompose_CategoryAveragesGroupByCategory(t *testing.T) {
	now := time.Now()
	session := &models.Session{
		ID:               "s-1",
		Type:             models.SessionMixed,
		Status:           models.StatusCompleted,
		TotalQuestions:   4,
		TotalScore:       26,
		MaxPossibleScore: 40,
		StartTime:        now.Add(-30 * time.Minute),
		EndTime:          &now,
		Questions: []models.Question{
			{Code: "q1", Category: models.CategoryTechnical, MaxScore: 10},
			{Code: "q2", Category: models.CategoryBehavioral, MaxScore: 10},
			{Code: "q3", Category: models.CategoryTechnical, MaxScore: 10},
			{Code: "q4", Category: models.CategorySituational, MaxScore: 10},
		},
		Answers: []models.Answer{
			{QuestionCode: "q1", Evaluation: &models.Evaluation{Score: 8, MaxScore: 10}},
			{QuestionCode: "q2", Evaluation: &models.Evaluation{Score: 6, MaxScore: 10}},
			{QuestionCode: "q3", Evaluation: &models.Evaluation{Score: 4, MaxScore: 10}},
			{QuestionCode: "q4", Evaluation: &models.Evaluation{Score: 8, MaxScore: 10}},
		},
	}

	composer := newResultsComposer(cache.NoopCache{}, time.Hour, evt.NewMockEventPublisher(testLogger()), testLogger())
	bundle := composer.Compose(session)

	assert.Equal(t, 65, bundle.Percentage)
	assert.Equal(t, "B-", bundle.Grade)

	// Two technical answers with different scores land in one bucket; the
	// order follows first appearance in the answer sequence.
	require.Len(t, bundle.CategoryAverages, 3)

	technical := bundle.CategoryAverages[0]
	assert.Equal(t, models.CategoryTechnical, technical.Category)
	assert.Equal(t, 6.0, technical.Average)
	assert.Equal(t, 2, technical.Questions)

	behavioral := bundle.CategoryAverages[1]
	assert.Equal(t, models.CategoryBehavioral, behavioral.Category)
	assert.Equal(t, 6.0, behavioral.Average)
	assert.Equal(t, 1, behavioral.Questions)

	situational := bundle.CategoryAverages[2]
	assert.Equal(t, models.CategorySituational, situational.Category)
	assert.Equal(t, 8.0, situational.Average)
}

func TestCompose_OptionalScoresAverageOverPresentOnly(t *testing.T) {
	session := &models.Session{
		ID:               "s-2",
		Status:           models.StatusCompleted,
		TotalScore:       10,
		MaxPossibleScore: 20,
		Questions: []models.Question{
			{Code: "q1", Category: models.CategoryTechnical, MaxScore: 10},
			{Code: "q2", Category: models.CategoryTechnical, MaxScore: 10},
		},
		Answers: []models.Answer{
			{QuestionCode: "q1", Evaluation: &models.Evaluation{Score: 5, MaxScore: 10, JobFitScore: ptrFloat(70)}},
			{QuestionCode: "q2", Evaluation: &models.Evaluation{Score: 5, MaxScore: 10, JobFitScore: ptrFloat(90)}},
		},
	}

	composer := newResultsComposer(cache.NoopCache{}, time.Hour, evt.NewMockEventPublisher(testLogger()), testLogger())
	bundle := composer.Compose(session)

	require.NotNil(t, bundle.JobFitScore)
	assert.Equal(t, 80.0, *bundle.JobFitScore)
	assert.Nil(t, bundle.RoleCompetencyScore, "no evaluation reported it")
}

func TestCompose_ZeroMaxScoreYieldsZeroPercent(t *testing.T) {
	session := &models.Session{
		ID:     "s-3",
		Status: models.StatusCompleted,
	}

	composer := newResultsComposer(cache.NoopCache{}, time.Hour, evt.NewMockEventPublisher(testLogger()), testLogger())
	bundle := composer.Compose(session)

	assert.Zero(t, bundle.Percentage)
	assert.Equal(t, "F", bundle.Grade)
	assert.Empty(t, bundle.CategoryAverages)
}

func TestResults_RequiresCompletedSession(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	session, _ := e.startSession(t, validCreateRequest())

	_, err := e.results.Results(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotCompleted)

	_, err = e.results.Results(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestResults_BundleForCompletedSession(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	e.evaluator.setFn(func(req intelligence.EvaluateRequest) (*models.Evaluation, error) {
		return &models.Evaluation{Score: 6, Feedback: "fine"}, nil
	})

	session, question := e.startSession(t, validCreateRequest())
	e.answerAll(t, session.ID, question)

	bundle, err := e.results.Results(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, bundle.SessionID)
	assert.Equal(t, models.SessionTechnical, bundle.Type)
	assert.Equal(t, 18.0, bundle.TotalScore)
	assert.Equal(t, 30.0, bundle.MaxPossibleScore)
	assert.Equal(t, 60, bundle.Percentage)
	assert.Equal(t, "C+", bundle.Grade)
	assert.False(t, bundle.CompletedAt.IsZero())

	// Results are derived, never mutated: a second read matches the first.
	again, err := e.results.Results(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, bundle.Percentage, again.Percentage)
	assert.Equal(t, bundle.Grade, again.Grade)
}
