package models

type QuestionCategory string

const (
	CategoryTechnical      QuestionCategory = "technical"
	CategoryBehavioral     QuestionCategory = "behavioral"
	CategorySituational    QuestionCategory = "situational"
	CategoryProblemSolving QuestionCategory = "problem-solving"
	CategoryLeadership     QuestionCategory = "leadership"
)

// Question is a single delivered interview question. Code is the stable
// identity used for dedup, stale-submission checks and fallback tagging;
// fallback questions carry a "fallback-" code prefix.
type Question struct {
	Code             string           `json:"code"`
	Category         QuestionCategory `json:"category"`
	Difficulty       DifficultyLevel  `json:"difficulty"`
	Text             string           `json:"text"`
	ExpectedKeywords []string         `json:"expected_keywords,omitempty"`
	TimeLimit        int              `json:"time_limit"` // seconds
	MaxScore         float64          `json:"max_score"`

	// Generator metadata used by the sequencer to avoid repetition.
	Topic   string `json:"topic,omitempty"`
	Depth   string `json:"depth,omitempty"`
	Context string `json:"context,omitempty"`
}

// FallbackCodePrefix tags questions served from the static bank so they
// are distinguishable from generated ones.
const FallbackCodePrefix = "fallback-"
