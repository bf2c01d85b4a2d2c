// Package resources implements external learning-resource clients and the
// aggregator that enriches resolved explanations with fetched material.
// All of it is best-effort: a provider outage degrades enrichment, never the
// explanation itself.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
	"github.com/eduagent-hub/edu-tutor-agent/pkg/circuitbreaker"
	"github.com/eduagent-hub/edu-tutor-agent/pkg/retry"
)

// WikipediaConfig contains configuration for the Wikipedia client.
type WikipediaConfig struct {
	// BaseURL is the Wikipedia REST API base URL.
	BaseURL string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// Retry configures retry behavior.
	Retry retry.Config

	// Breaker configures the circuit breaker.
	Breaker circuitbreaker.Config
}

// DefaultWikipediaConfig returns sensible defaults.
func DefaultWikipediaConfig() WikipediaConfig {
	return WikipediaConfig{
		BaseURL: "https://en.wikipedia.org/api/rest_v1",
		Timeout: 10 * time.Second,
		Retry:   retry.DefaultConfig(),
		Breaker: circuitbreaker.DefaultConfig("wikipedia"),
	}
}

// summaryDTO is the subset of the page summary response we use.
type summaryDTO struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// WikipediaClient fetches topic summaries from the Wikipedia REST API.
type WikipediaClient struct {
	config     WikipediaConfig
	httpClient *http.Client
	breaker    *circuitbreaker.Breaker
}

// NewWikipediaClient creates a new WikipediaClient.
func NewWikipediaClient(cfg WikipediaConfig) *WikipediaClient {
	return &WikipediaClient{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    circuitbreaker.New(cfg.Breaker),
	}
}

// Summary returns the lead extract for a concept's article. The concept name
// is title-cased the way Wikipedia titles are ("data-structures" becomes
// "Data structures").
func (c *WikipediaClient) Summary(ctx context.Context, concept shared.ConceptType) (string, error) {
	title := articleTitle(concept)
	endpoint := c.config.BaseURL + "/page/summary/" + url.PathEscape(title)

	var extract string
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return retry.Do(ctx, c.config.Retry, func(ctx context.Context) error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Permanent(fmt.Errorf("create request: %w", err))
			}
			req.Header.Set("Accept", "application/json")

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
			case resp.StatusCode == http.StatusNotFound:
				// Missing articles will stay missing.
				return retry.Permanent(shared.ErrResourceNotFound)
			case resp.StatusCode >= 500:
				return fmt.Errorf("wikipedia status %d", resp.StatusCode)
			default:
				return retry.Permanent(fmt.Errorf("wikipedia status %d", resp.StatusCode))
			}

			var dto summaryDTO
			if err := json.Unmarshal(body, &dto); err != nil {
				return retry.Permanent(fmt.Errorf("decode summary: %w", err))
			}
			extract = strings.TrimSpace(dto.Extract)
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	if extract == "" {
		return "", shared.ErrResourceNotFound
	}
	return extract, nil
}

// articleTitle maps a normalized concept to a Wikipedia article title.
func articleTitle(concept shared.ConceptType) string {
	s := strings.ReplaceAll(concept.String(), "-", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
