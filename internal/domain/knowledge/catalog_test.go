package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
)

func TestDefaultCatalog_EveryConceptHasAtLeastOneDifficulty(t *testing.T) {
	catalog := DefaultCatalog()

	require.NotEmpty(t, catalog.Concepts())
	for _, concept := range catalog.Concepts() {
		assert.NotEmpty(t, catalog.Difficulties(concept), "concept=%s", concept)
	}
}

func TestDefaultCatalog_AllRecordsComplete(t *testing.T) {
	catalog := DefaultCatalog()

	for _, concept := range catalog.Concepts() {
		for _, difficulty := range catalog.Difficulties(concept) {
			record, ok := catalog.Lookup(concept, difficulty)
			require.True(t, ok)
			assert.True(t, record.IsComplete(), "concept=%s difficulty=%s", concept, difficulty)
		}
	}
}

func TestCatalog_LookupAbsenceIsNotAnError(t *testing.T) {
	catalog := DefaultCatalog()

	_, ok := catalog.Lookup("quantum-foo", shared.DifficultyBeginner)
	assert.False(t, ok)

	// geometry deliberately lacks an advanced entry.
	_, ok = catalog.Lookup(shared.ConceptGeometry, shared.DifficultyAdvanced)
	assert.False(t, ok)

	_, ok = catalog.Lookup(shared.ConceptGeometry, shared.DifficultyBeginner)
	assert.True(t, ok)
}

func TestCatalog_ReturnedRecordsAreCopies(t *testing.T) {
	catalog := DefaultCatalog()

	record, ok := catalog.Lookup(shared.ConceptAlgebra, shared.DifficultyBeginner)
	require.True(t, ok)
	require.NotEmpty(t, record.KeyPoints)

	// Mutating the returned record must not leak into catalog state.
	record.KeyPoints[0] = "mutated"

	again, ok := catalog.Lookup(shared.ConceptAlgebra, shared.DifficultyBeginner)
	require.True(t, ok)
	assert.NotEqual(t, "mutated", again.KeyPoints[0])
}

func TestCatalog_DifficultiesAscending(t *testing.T) {
	catalog := DefaultCatalog()

	for _, concept := range catalog.Concepts() {
		difficulties := catalog.Difficulties(concept)
		for i := 1; i < len(difficulties); i++ {
			assert.Less(t, difficulties[i-1].Rank(), difficulties[i].Rank())
		}
	}
}
