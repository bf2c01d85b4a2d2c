package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
)

func TestResolve_ExactMatchIdentity(t *testing.T) {
	catalog := DefaultCatalog()
	resolver := NewResolver(catalog)

	// Every stored pair resolves to exactly the stored record.
	for _, concept := range catalog.Concepts() {
		for _, difficulty := range catalog.Difficulties(concept) {
			stored, ok := catalog.Lookup(concept, difficulty)
			require.True(t, ok)

			resolved := resolver.Resolve(concept, difficulty)
			assert.Equal(t, stored, resolved, "concept=%s difficulty=%s", concept, difficulty)
		}
	}
}

func TestResolve_ConceptFallbackStaysWithinConcept(t *testing.T) {
	catalog := DefaultCatalog()
	resolver := NewResolver(catalog)

	for _, concept := range catalog.Concepts() {
		present := make(map[shared.DifficultyLevel]bool)
		for _, d := range catalog.Difficulties(concept) {
			present[d] = true
		}

		for _, difficulty := range shared.AllDifficulties {
			if present[difficulty] {
				continue
			}

			resolved := resolver.Resolve(concept, difficulty)
			require.True(t, resolved.IsComplete())

			// The result must be one of this concept's own records, never a
			// cross-concept or generic record.
			found := false
			for _, d := range catalog.Difficulties(concept) {
				stored, _ := catalog.Lookup(concept, d)
				if assert.ObjectsAreEqual(stored, resolved) {
					found = true
					break
				}
			}
			assert.True(t, found, "concept=%s difficulty=%s resolved outside the concept", concept, difficulty)
		}
	}
}

func TestResolve_NearestDifficultyTieBreaksLow(t *testing.T) {
	beginner := ExplanationRecord{
		Explanation:      "beginner text",
		KeyPoints:        []string{"a"},
		Examples:         []string{},
		PracticeProblems: []string{},
	}
	advanced := ExplanationRecord{
		Explanation:      "advanced text",
		KeyPoints:        []string{"b"},
		Examples:         []string{},
		PracticeProblems: []string{},
	}

	catalog := NewCatalog(map[shared.ConceptType]map[shared.DifficultyLevel]ExplanationRecord{
		"topology": {
			shared.DifficultyBeginner: beginner,
			shared.DifficultyAdvanced: advanced,
		},
	})
	resolver := NewResolver(catalog)

	// Intermediate is equidistant from beginner and advanced; the tie breaks
	// toward the lower difficulty.
	resolved := resolver.Resolve("topology", shared.DifficultyIntermediate)
	assert.Equal(t, beginner, resolved)
}

func TestResolve_NearestDifficultyPrefersCloserTier(t *testing.T) {
	catalog := DefaultCatalog()
	resolver := NewResolver(catalog)

	// algorithms has intermediate and advanced only; a beginner request is
	// closer to intermediate.
	resolved := resolver.Resolve(shared.ConceptAlgorithms, shared.DifficultyBeginner)
	intermediate, ok := catalog.Lookup(shared.ConceptAlgorithms, shared.DifficultyIntermediate)
	require.True(t, ok)
	assert.Equal(t, intermediate, resolved)

	// javascript has beginner only; any request resolves to it.
	resolved = resolver.Resolve(shared.ConceptJavaScript, shared.DifficultyAdvanced)
	beginnerJS, ok := catalog.Lookup(shared.ConceptJavaScript, shared.DifficultyBeginner)
	require.True(t, ok)
	assert.Equal(t, beginnerJS, resolved)
}

func TestResolve_UnknownConceptGenericTemplate(t *testing.T) {
	resolver := NewResolver(DefaultCatalog())

	for _, difficulty := range shared.AllDifficulties {
		resolved := resolver.Resolve("quantum-foo", difficulty)

		require.True(t, resolved.IsComplete())
		assert.Contains(t, resolved.Explanation, "quantum-foo")
		assert.Contains(t, resolved.Explanation, difficulty.String())
	}
}

func TestResolve_NeverReturnsIncompleteRecord(t *testing.T) {
	resolver := NewResolver(DefaultCatalog())

	concepts := []shared.ConceptType{
		shared.ConceptAlgebra, shared.ConceptStatistics, "quantum-foo", "", "WEIRD concept",
	}
	for _, concept := range concepts {
		for _, difficulty := range shared.AllDifficulties {
			resolved := resolver.Resolve(concept, difficulty)
			assert.True(t, resolved.IsComplete(), "concept=%q difficulty=%s", concept, difficulty)
		}
	}
}

func TestGenericRecord_MentionsBothParameters(t *testing.T) {
	record := genericRecord("category-theory", shared.DifficultyAdvanced)

	assert.True(t, strings.Contains(record.Explanation, "category-theory"))
	assert.True(t, strings.Contains(record.Explanation, "advanced"))
	assert.NotEmpty(t, record.KeyPoints)
}
