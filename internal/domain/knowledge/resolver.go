package knowledge

import (
	"fmt"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
)

// Resolver maps a (concept, difficulty) pair to an ExplanationRecord,
// applying a three-tier fallback when no exact match exists:
//
//  1. exact match in the catalog;
//  2. same concept at the nearest difficulty (ties toward the lower tier);
//  3. generic templated record naming the requested concept and difficulty.
//
// Resolve never returns an absent record and never fails: unknown input
// trades precision for availability instead of raising an error.
type Resolver struct {
	catalog *Catalog
}

// NewResolver creates a resolver over the given catalog.
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve returns a usable record for any concept/difficulty pair.
func (r *Resolver) Resolve(concept shared.ConceptType, difficulty shared.DifficultyLevel) ExplanationRecord {
	// Tier 1: exact match.
	if record, ok := r.catalog.Lookup(concept, difficulty); ok {
		return record
	}

	// Tier 2: concept exists, requested difficulty absent. Pick the entry at
	// the nearest difficulty by the total order; on equal distance prefer the
	// lower tier (conservative-explanation bias).
	if r.catalog.HasConcept(concept) {
		nearest := nearestDifficulty(difficulty, r.catalog.Difficulties(concept))
		if record, ok := r.catalog.Lookup(concept, nearest); ok {
			return record
		}
	}

	// Tier 3: concept entirely unknown. Return a generic templated record
	// parameterized with the literal concept and difficulty strings, so the
	// response is always informative about what was asked.
	return genericRecord(concept, difficulty)
}

// nearestDifficulty selects from available (ascending, non-empty) the tier
// closest to requested, breaking ties toward the lower tier.
func nearestDifficulty(requested shared.DifficultyLevel, available []shared.DifficultyLevel) shared.DifficultyLevel {
	best := available[0]
	bestDist := distance(requested, best)
	for _, candidate := range available[1:] {
		// Strict < keeps the earlier (lower) tier on ties, since available
		// is sorted ascending.
		if d := distance(requested, candidate); d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best
}

func distance(a, b shared.DifficultyLevel) int {
	d := a.Rank() - b.Rank()
	if d < 0 {
		return -d
	}
	return d
}

// genericRecord builds the tier-3 fallback content.
func genericRecord(concept shared.ConceptType, difficulty shared.DifficultyLevel) ExplanationRecord {
	return ExplanationRecord{
		Explanation: fmt.Sprintf(
			"I don't have prepared material on %q at the %s level yet, but here is how to approach it. "+
				"Start by pinning down the definitions involved in %s, then work through small concrete cases "+
				"before tackling the general idea at %s depth.",
			concept.String(), difficulty.String(), concept.String(), difficulty.String()),
		KeyPoints: []string{
			fmt.Sprintf("Identify the core definitions behind %s", concept.String()),
			"Work through small concrete cases before generalizing",
			"Connect the concept to something you already understand",
		},
		Examples: []string{
			fmt.Sprintf("Find a worked %s-level example of %s and redo it without looking", difficulty.String(), concept.String()),
		},
		PracticeProblems: []string{
			fmt.Sprintf("Write down three questions you have about %s and answer the easiest one first", concept.String()),
			fmt.Sprintf("Explain %s in your own words to someone unfamiliar with it", concept.String()),
		},
	}
}
