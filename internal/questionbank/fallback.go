package questionbank

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/prepwise/interview-service/internal/models"
)

// FallbackBank is the static stand-in question table used when the
// question generator is unavailable. Lookup is by normalized position,
// category and difficulty; a miss means the caller has to escalate.
type FallbackBank struct {
	entries map[bankKey]bankEntry
}

type bankKey struct {
	position   string
	category   models.QuestionCategory
	difficulty models.DifficultyLevel
}

type bankEntry struct {
	text             string
	expectedKeywords []string
	timeLimit        int
	maxScore         float64
	topic            string
}

// Lookup returns a fallback question for (position, category, difficulty),
// or false when the bank has no entry for that combination. Each returned
// question carries a fresh, fallback-prefixed code so repeated fallbacks in
// one session stay distinguishable.
func (b *FallbackBank) Lookup(position string, category models.QuestionCategory, difficulty models.DifficultyLevel) (*models.Question, bool) {
	entry, ok := b.entries[bankKey{
		position:   normalizePosition(position),
		category:   category,
		difficulty: difficulty,
	}]
	if !ok {
		return nil, false
	}

	return &models.Question{
		Code:             fmt.Sprintf("%s%s", models.FallbackCodePrefix, uuid.NewString()),
		Category:         category,
		Difficulty:       difficulty,
		Text:             entry.text,
		ExpectedKeywords: append([]string(nil), entry.expectedKeywords...),
		TimeLimit:        entry.timeLimit,
		MaxScore:         entry.maxScore,
		Topic:            entry.topic,
	}, true
}

func normalizePosition(position string) string {
	return strings.ToLower(strings.TrimSpace(position))
}

// NewDefaultBank builds the built-in fallback table. Entries cover the
// positions the product ships interview tracks for; anything else escalates
// to the caller.
func NewDefaultBank() *FallbackBank {
	b := &FallbackBank{entries: make(map[bankKey]bankEntry)}

	b.add("software engineer", models.CategoryTechnical, models.DifficultyEasy, bankEntry{
		text:             "Explain the difference between a stack and a queue, and give one practical use of each.",
		expectedKeywords: []string{"LIFO", "FIFO", "push", "pop", "enqueue", "dequeue"},
		timeLimit:        180,
		maxScore:         10,
		topic:            "data structures",
	})
	b.add("software engineer", models.CategoryTechnical, models.DifficultyMedium, bankEntry{
		text:             "How would you design a rate limiter for a public API? Discuss the trade-offs of at least two algorithms.",
		expectedKeywords: []string{"token bucket", "sliding window", "throttling", "burst"},
		timeLimit:        300,
		maxScore:         10,
		topic:            "system design",
	})
	b.add("software engineer", models.CategoryTechnical, models.DifficultyHard, bankEntry{
		text:             "Describe how you would diagnose and fix a production memory leak in a long-running service without restarting it.",
		expectedKeywords: []string{"profiling", "heap", "allocation", "monitoring"},
		timeLimit:        420,
		maxScore:         10,
		topic:            "debugging",
	})
	b.add("software engineer", models.CategoryProblemSolving, models.DifficultyMedium, bankEntry{
		text:             "You inherit a service whose test suite takes four hours. Walk through how you would cut that down.",
		expectedKeywords: []string{"parallelize", "flaky", "isolation", "prioritize"},
		timeLimit:        300,
		maxScore:         10,
		topic:            "engineering process",
	})
	b.add("software engineer", models.CategoryBehavioral, models.DifficultyEasy, bankEntry{
		text:             "Tell me about a time you disagreed with a code review comment. How did you resolve it?",
		expectedKeywords: []string{"communication", "compromise", "feedback"},
		timeLimit:        240,
		maxScore:         10,
		topic:            "collaboration",
	})
	b.add("software engineer", models.CategoryBehavioral, models.DifficultyMedium, bankEntry{
		text:             "Describe a project where requirements changed late. What did you do and what was the outcome?",
		expectedKeywords: []string{"adaptability", "priorities", "stakeholders"},
		timeLimit:        240,
		maxScore:         10,
		topic:            "adaptability",
	})
	b.add("software engineer", models.CategorySituational, models.DifficultyMedium, bankEntry{
		text:             "A teammate ships a change on Friday that breaks a customer-facing flow. You are on call. What do you do, in order?",
		expectedKeywords: []string{"rollback", "incident", "communication", "postmortem"},
		timeLimit:        240,
		maxScore:         10,
		topic:            "incident response",
	})

	b.add("data scientist", models.CategoryTechnical, models.DifficultyEasy, bankEntry{
		text:             "What is overfitting and how do you detect and prevent it?",
		expectedKeywords: []string{"generalization", "validation", "regularization", "cross-validation"},
		timeLimit:        180,
		maxScore:         10,
		topic:            "model evaluation",
	})
	b.add("data scientist", models.CategoryTechnical, models.DifficultyMedium, bankEntry{
		text:             "You have a dataset with 30% missing values in a key feature. Walk through your options and how you would choose.",
		expectedKeywords: []string{"imputation", "bias", "missing at random", "drop"},
		timeLimit:        300,
		maxScore:         10,
		topic:            "data preparation",
	})
	b.add("data scientist", models.CategoryBehavioral, models.DifficultyMedium, bankEntry{
		text:             "Tell me about a time an analysis you presented was challenged. How did you respond?",
		expectedKeywords: []string{"evidence", "assumptions", "communication"},
		timeLimit:        240,
		maxScore:         10,
		topic:            "communication",
	})

	b.add("product manager", models.CategoryBehavioral, models.DifficultyEasy, bankEntry{
		text:             "Tell me about a feature you decided not to build. How did you make and communicate that call?",
		expectedKeywords: []string{"prioritization", "trade-off", "stakeholders"},
		timeLimit:        240,
		maxScore:         10,
		topic:            "prioritization",
	})
	b.add("product manager", models.CategorySituational, models.DifficultyMedium, bankEntry{
		text:             "Engineering says your top roadmap item will take three times the estimate. The launch date is public. What do you do?",
		expectedKeywords: []string{"scope", "communicate", "de-risk", "expectations"},
		timeLimit:        240,
		maxScore:         10,
		topic:            "negotiation",
	})
	b.add("product manager", models.CategoryLeadership, models.DifficultyHard, bankEntry{
		text:             "Describe how you would align two teams with conflicting quarterly goals that both depend on your product area.",
		expectedKeywords: []string{"alignment", "influence", "metrics", "escalation"},
		timeLimit:        300,
		maxScore:         10,
		topic:            "cross-team leadership",
	})

	return b
}

func (b *FallbackBank) add(position string, category models.QuestionCategory, difficulty models.DifficultyLevel, entry bankEntry) {
	b.entries[bankKey{
		position:   position,
		category:   category,
		difficulty: difficulty,
	}] = entry
}

// Size returns the number of entries in the bank.
func (b *FallbackBank) Size() int {
	return len(b.entries)
}
