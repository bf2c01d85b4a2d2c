package resources

import (
	"context"
	"fmt"
	"time"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/knowledge"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
	"github.com/eduagent-hub/edu-tutor-agent/pkg/logger"
)

// Summarizer provides topic context. Implemented by WikipediaClient.
type Summarizer interface {
	Summary(ctx context.Context, concept shared.ConceptType) (string, error)
}

// QuestionSource provides practice questions. Implemented by QuizClient.
type QuestionSource interface {
	Questions(ctx context.Context, concept shared.ConceptType, difficulty shared.DifficultyLevel, limit int) ([]string, error)
}

// Cache stores fetched enrichments. Implemented by the Redis cache; a miss is
// any non-nil Get error, so a degraded cache just means refetching.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// maxPracticeProblems bounds how many fetched questions replace the canned
// practice problems.
const maxPracticeProblems = 3

// enrichment is the cached unit of fetched material for one concept/tier pair.
type enrichment struct {
	Context          string   `json:"context"`
	PracticeProblems []string `json:"practice_problems"`
}

func (e enrichment) empty() bool {
	return e.Context == "" && len(e.PracticeProblems) == 0
}

// Aggregator combines the resource providers into one enricher. It satisfies
// the application layer's ResourceEnricher interface.
type Aggregator struct {
	summaries Summarizer
	questions QuestionSource
	cache     Cache // optional
	cacheTTL  time.Duration
	events    shared.EventPublisher // optional
	log       *logger.Logger
}

// Option configures the Aggregator.
type Option func(*Aggregator)

// WithCacheTTL overrides how long fetched enrichments stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(a *Aggregator) {
		if ttl > 0 {
			a.cacheTTL = ttl
		}
	}
}

// NewAggregator creates an Aggregator. cache and events may be nil.
func NewAggregator(summaries Summarizer, questions QuestionSource, cache Cache, events shared.EventPublisher, log *logger.Logger, opts ...Option) *Aggregator {
	if log == nil {
		log = logger.Default()
	}
	a := &Aggregator{
		summaries: summaries,
		questions: questions,
		cache:     cache,
		cacheTTL:  15 * time.Minute,
		events:    events,
		log:       log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Enrich augments a resolved explanation with fetched context and practice
// questions. Provider failures degrade to a partial or absent enrichment and
// are reported via events; they never surface to the asking student.
func (a *Aggregator) Enrich(ctx context.Context, record *knowledge.ExplanationRecord, concept shared.ConceptType, difficulty shared.DifficultyLevel) error {
	key := enrichmentKey(concept, difficulty)

	var cached enrichment
	if a.cache != nil {
		if err := a.cache.Get(ctx, key, &cached); err == nil && !cached.empty() {
			apply(record, cached)
			return nil
		}
	}

	fetched := a.fetch(ctx, concept, difficulty)
	if fetched.empty() {
		return shared.ErrResourceUnavailable
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, key, fetched, a.cacheTTL); err != nil {
			a.log.Warn("enrichment cache write failed",
				logger.String("key", key), logger.Err(err))
		}
	}

	apply(record, fetched)
	return nil
}

// fetch gathers whatever the providers can supply right now.
func (a *Aggregator) fetch(ctx context.Context, concept shared.ConceptType, difficulty shared.DifficultyLevel) enrichment {
	var out enrichment

	if a.summaries != nil {
		summary, err := a.summaries.Summary(ctx, concept)
		if err != nil {
			a.reportFailure(ctx, "wikipedia", concept, err)
		} else {
			out.Context = summary
		}
	}

	if a.questions != nil {
		problems, err := a.questions.Questions(ctx, concept, difficulty, maxPracticeProblems)
		if err != nil {
			a.reportFailure(ctx, "quizapi", concept, err)
		} else {
			out.PracticeProblems = problems
		}
	}

	return out
}

func (a *Aggregator) reportFailure(ctx context.Context, source string, concept shared.ConceptType, err error) {
	a.log.Warn("resource fetch failed",
		logger.String("source", source),
		logger.String("concept", concept.String()),
		logger.Err(err))
	if a.events != nil {
		if pubErr := a.events.Publish(ctx, shared.NewResourceFetchFailedEvent(source, concept, err)); pubErr != nil {
			a.log.Warn("resource event publish failed", logger.Err(pubErr))
		}
	}
}

// apply merges an enrichment into the record.
func apply(record *knowledge.ExplanationRecord, e enrichment) {
	if e.Context != "" {
		record.Explanation += "\n\nAdditional Context:\n" + e.Context
	}
	if len(e.PracticeProblems) > 0 {
		problems := e.PracticeProblems
		if len(problems) > maxPracticeProblems {
			problems = problems[:maxPracticeProblems]
		}
		record.PracticeProblems = append([]string(nil), problems...)
	}
}

func enrichmentKey(concept shared.ConceptType, difficulty shared.DifficultyLevel) string {
	return fmt.Sprintf("resource:enrichment:%s:%s", concept, difficulty)
}
