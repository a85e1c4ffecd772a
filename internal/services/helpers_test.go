package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prepwise/interview-service/internal/cache"
	evt "github.com/prepwise/interview-service/internal/events"
	"github.com/prepwise/interview-service/internal/intelligence"
	"github.com/prepwise/interview-service/internal/models"
	"github.com/prepwise/interview-service/internal/questionbank"
	"github.com/prepwise/interview-service/internal/store"
	"github.com/prepwise/interview-service/internal/validator"
)

// testTick keeps countdowns fast enough for tests: one "second" of
// question time passes every 5ms.
const testTick = 5 * time.Millisecond

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// mockGenerator is a scriptable QuestionGenerator.
type mockGenerator struct {
	mu    sync.Mutex
	calls []intelligence.GenerateRequest
	fn    func(req intelligence.GenerateRequest) (*models.Question, error)
}

func (m *mockGenerator) GenerateQuestion(ctx context.Context, req intelligence.GenerateRequest) (*models.Question, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	fn := m.fn
	m.mu.Unlock()

	if fn != nil {
		return fn(req)
	}
	return &models.Question{
		Code:       uuid.NewString(),
		Category:   req.Category,
		Difficulty: req.Difficulty,
		Text:       fmt.Sprintf("Describe your experience with %s work.", req.Category),
		TimeLimit:  600,
		MaxScore:   10,
	}, nil
}

func (m *mockGenerator) setFn(fn func(req intelligence.GenerateRequest) (*models.Question, error)) {
	m.mu.Lock()
	m.fn = fn
	m.mu.Unlock()
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockGenerator) lastCall() intelligence.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

// mockEvaluator is a scriptable AnswerEvaluator.
type mockEvaluator struct {
	mu    sync.Mutex
	calls []intelligence.EvaluateRequest
	fn    func(req intelligence.EvaluateRequest) (*models.Evaluation, error)
}

func (m *mockEvaluator) EvaluateAnswer(ctx context.Context, req intelligence.EvaluateRequest) (*models.Evaluation, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	fn := m.fn
	m.mu.Unlock()

	if fn != nil {
		return fn(req)
	}
	return &models.Evaluation{
		Score:    8,
		Feedback: "Solid answer with room to go deeper.",
	}, nil
}

func (m *mockEvaluator) setFn(fn func(req intelligence.EvaluateRequest) (*models.Evaluation, error)) {
	m.mu.Lock()
	m.fn = fn
	m.mu.Unlock()
}

func (m *mockEvaluator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// testEngine wires the full engine over mocks, with fast timer ticks.
type testEngine struct {
	store      *store.SessionStore
	timers     *TimerManager
	generator  *mockGenerator
	evaluator  *mockEvaluator
	publisher  *evt.MockEventPublisher
	session    SessionService
	sequencer  SequencerService
	evaluation EvaluationService
	results    ResultsService
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	logger := testLogger()

	st := store.NewSessionStore(time.Hour, time.Hour, logger)
	t.Cleanup(st.Close)

	timers := newTimerManagerWithTick(testTick, logger)
	t.Cleanup(timers.Shutdown)

	gen := &mockGenerator{}
	eval := &mockEvaluator{}
	publisher := evt.NewMockEventPublisher(logger)
	v := validator.New()

	composer := newResultsComposer(cache.NoopCache{}, time.Hour, publisher, logger)
	evaluation := NewEvaluationService(st, eval, timers, composer, logger, v)
	sequencer := NewSequencerService(st, gen, questionbank.NewDefaultBank(), timers,
		evaluation.(*evaluationService).AutoSubmit, logger)
	session := NewSessionService(st, timers, publisher, logger, v)
	results := NewResultsService(st, composer, logger)

	st.SetEvictHook(timers.Cancel)

	return &testEngine{
		store:      st,
		timers:     timers,
		generator:  gen,
		evaluator:  eval,
		publisher:  publisher,
		session:    session,
		sequencer:  sequencer,
		evaluation: evaluation,
		results:    results,
	}
}

func validCreateRequest() *CreateSessionRequest {
	return &CreateSessionRequest{
		Type:           models.SessionTechnical,
		Industry:       "software",
		Position:       "software engineer",
		Difficulty:     models.DifficultyMedium,
		TotalQuestions: 3,
	}
}

// startSession creates a session and delivers its first question.
func (e *testEngine) startSession(t *testing.T, req *CreateSessionRequest) (*models.Session, *models.Question) {
	t.Helper()
	ctx := context.Background()

	session, err := e.session.Create(ctx, req)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	next, err := e.sequencer.Next(ctx, session.ID)
	if err != nil {
		t.Fatalf("failed to deliver first question: %v", err)
	}
	return session, next.Question
}

// answerAll walks a session to completion with manual submissions.
func (e *testEngine) answerAll(t *testing.T, sessionID string, firstQuestion *models.Question) *SubmitResult {
	t.Helper()
	ctx := context.Background()

	question := firstQuestion
	var last *SubmitResult
	for {
		result, err := e.evaluation.Submit(ctx, sessionID, &SubmitAnswerRequest{
			QuestionCode: question.Code,
			Text:         "I would approach this methodically.",
			TimeSpent:    30,
		})
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		last = result
		if result.IsComplete {
			return last
		}
		next, err := e.sequencer.Next(ctx, sessionID)
		if err != nil {
			t.Fatalf("next failed: %v", err)
		}
		question = next.Question
	}
}
