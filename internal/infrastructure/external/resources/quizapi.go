package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
	"github.com/eduagent-hub/edu-tutor-agent/pkg/circuitbreaker"
	"github.com/eduagent-hub/edu-tutor-agent/pkg/retry"
)

// QuizConfig contains configuration for the quiz provider client.
type QuizConfig struct {
	// BaseURL is the quiz API base URL.
	BaseURL string

	// APIKey authenticates requests (sent as X-Api-Key).
	APIKey string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// Retry configures retry behavior.
	Retry retry.Config

	// Breaker configures the circuit breaker.
	Breaker circuitbreaker.Config
}

// DefaultQuizConfig returns sensible defaults.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{
		BaseURL: "https://quizapi.io/api/v1",
		Timeout: 10 * time.Second,
		Retry:   retry.DefaultConfig(),
		Breaker: circuitbreaker.DefaultConfig("quizapi"),
	}
}

// questionDTO is one question from the quiz API.
type questionDTO struct {
	Question string `json:"question"`
}

// QuizClient fetches practice questions from a quiz API.
type QuizClient struct {
	config     QuizConfig
	httpClient *http.Client
	breaker    *circuitbreaker.Breaker
}

// NewQuizClient creates a new QuizClient.
func NewQuizClient(cfg QuizConfig) *QuizClient {
	return &QuizClient{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    circuitbreaker.New(cfg.Breaker),
	}
}

// Questions fetches up to limit practice questions for a concept at a
// difficulty. The provider maps our tiers onto its own ("beginner" is "Easy").
func (c *QuizClient) Questions(ctx context.Context, concept shared.ConceptType, difficulty shared.DifficultyLevel, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 3
	}

	params := url.Values{}
	params.Set("tags", concept.String())
	params.Set("difficulty", providerDifficulty(difficulty))
	params.Set("limit", strconv.Itoa(limit))
	endpoint := c.config.BaseURL + "/questions?" + params.Encode()

	var questions []string
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return retry.Do(ctx, c.config.Retry, func(ctx context.Context) error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Permanent(fmt.Errorf("create request: %w", err))
			}
			req.Header.Set("Accept", "application/json")
			if c.config.APIKey != "" {
				req.Header.Set("X-Api-Key", c.config.APIKey)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("execute request: %w", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			if err != nil {
				return fmt.Errorf("read response: %w", err)
			}

			switch {
			case resp.StatusCode == http.StatusOK:
			case resp.StatusCode == http.StatusTooManyRequests:
				return fmt.Errorf("%w: quiz api", shared.ErrResourceRateLimited)
			case resp.StatusCode >= 500:
				return fmt.Errorf("quiz api status %d", resp.StatusCode)
			default:
				return retry.Permanent(fmt.Errorf("quiz api status %d", resp.StatusCode))
			}

			var dtos []questionDTO
			if err := json.Unmarshal(body, &dtos); err != nil {
				return retry.Permanent(fmt.Errorf("decode questions: %w", err))
			}

			questions = questions[:0]
			for _, dto := range dtos {
				if dto.Question == "" {
					continue
				}
				questions = append(questions, dto.Question)
				if len(questions) == limit {
					break
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// providerDifficulty maps our tiers onto the provider's vocabulary.
func providerDifficulty(d shared.DifficultyLevel) string {
	switch d {
	case shared.DifficultyBeginner:
		return "Easy"
	case shared.DifficultyAdvanced:
		return "Hard"
	default:
		return "Medium"
	}
}
