package services

import (
	"log/slog"
	"time"

	"github.com/prepwise/interview-service/internal/cache"
	evt "github.com/prepwise/interview-service/internal/events"
	"github.com/prepwise/interview-service/internal/intelligence"
	"github.com/prepwise/interview-service/internal/questionbank"
	"github.com/prepwise/interview-service/internal/store"
	"github.com/prepwise/interview-service/internal/validator"
)

// ManagerConfig carries everything the engine's services share.
type ManagerConfig struct {
	Store           *store.SessionStore
	Generator       intelligence.QuestionGenerator
	Evaluator       intelligence.AnswerEvaluator
	FallbackBank    *questionbank.FallbackBank
	Cache           cache.CacheService
	ResultsCacheTTL time.Duration
	Publisher       evt.EventPublisher
	Logger          *slog.Logger
	Validator       *validator.Validator
}

type serviceManager struct {
	session    SessionService
	sequencer  SequencerService
	evaluation EvaluationService
	results    ResultsService
	timers     *TimerManager
}

// NewServiceManager wires the session engine: one timer manager, one
// results composer, and the lifecycle/sequencer/aggregator services over
// the shared store. The store's eviction hook and the timer expiry path
// are connected here.
func NewServiceManager(cfg ManagerConfig) ServiceManager {
	timers := NewTimerManager(cfg.Logger)
	composer := newResultsComposer(cfg.Cache, cfg.ResultsCacheTTL, cfg.Publisher, cfg.Logger)

	evaluation := NewEvaluationService(cfg.Store, cfg.Evaluator, timers, composer, cfg.Logger, cfg.Validator)
	autoSubmit := evaluation.(*evaluationService).AutoSubmit

	onExpire := func(sessionID, questionCode string) {
		autoSubmit(sessionID, questionCode)
	}

	sequencer := NewSequencerService(cfg.Store, cfg.Generator, cfg.FallbackBank, timers, onExpire, cfg.Logger)
	session := NewSessionService(cfg.Store, timers, cfg.Publisher, cfg.Logger, cfg.Validator)
	results := NewResultsService(cfg.Store, composer, cfg.Logger)

	// Evicted sessions must not leave a countdown running.
	cfg.Store.SetEvictHook(timers.Cancel)

	return &serviceManager{
		session:    session,
		sequencer:  sequencer,
		evaluation: evaluation,
		results:    results,
		timers:     timers,
	}
}

func (m *serviceManager) Session() SessionService       { return m.session }
func (m *serviceManager) Sequencer() SequencerService   { return m.sequencer }
func (m *serviceManager) Evaluation() EvaluationService { return m.evaluation }
func (m *serviceManager) Results() ResultsService       { return m.results }

// Close cancels all running timers.
func (m *serviceManager) Close() {
	m.timers.Shutdown()
}
