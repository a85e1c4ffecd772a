package intelligence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prepwise/interview-service/internal/models"
)

// GenerateRequest asks the intelligence service for one interview question.
// PreviousQuestionCodes biases generation away from recently asked topics.
type GenerateRequest struct {
	Category              models.QuestionCategory `json:"category"`
	Industry              string                  `json:"industry"`
	Position              string                  `json:"position"`
	Difficulty            models.DifficultyLevel  `json:"difficulty"`
	PreviousQuestionCodes []string                `json:"previous_question_codes,omitempty"`
	JobRequirements       []string                `json:"job_requirements,omitempty"`
	RoleCompetencies      []string                `json:"role_competencies,omitempty"`
}

// EvaluateRequest asks the intelligence service to score one answer.
type EvaluateRequest struct {
	Question         models.Question `json:"question"`
	AnswerText       string          `json:"answer_text"`
	TimeSpent        int             `json:"time_spent"`
	JobRequirements  []string        `json:"job_requirements,omitempty"`
	RoleCompetencies []string        `json:"role_competencies,omitempty"`
}

// QuestionGenerator produces interview questions. Implementations may fail;
// the sequencer degrades to the fallback bank on any error.
type QuestionGenerator interface {
	GenerateQuestion(ctx context.Context, req GenerateRequest) (*models.Question, error)
}

// AnswerEvaluator scores submitted answers. Implementations may fail; the
// aggregator substitutes a neutral default evaluation on any error.
type AnswerEvaluator interface {
	EvaluateAnswer(ctx context.Context, req EvaluateRequest) (*models.Evaluation, error)
}

// Client talks JSON over HTTP to the external intelligence service. It
// implements both collaborator interfaces.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *Client) GenerateQuestion(ctx context.Context, req GenerateRequest) (*models.Question, error) {
	var question models.Question
	if err := c.post(ctx, "/v1/questions/generate", req, &question); err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}
	if question.Text == "" {
		return nil, fmt.Errorf("question generation returned empty question")
	}
	return &question, nil
}

func (c *Client) EvaluateAnswer(ctx context.Context, req EvaluateRequest) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := c.post(ctx, "/v1/answers/evaluate", req, &evaluation); err != nil {
		return nil, fmt.Errorf("answer evaluation failed: %w", err)
	}
	return &evaluation, nil
}

func (c *Client) post(ctx context.Context, path string, body, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to intelligence service failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Intelligence service returned non-OK status",
			"path", path,
			"status_code", resp.StatusCode)
		return fmt.Errorf("intelligence service returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
