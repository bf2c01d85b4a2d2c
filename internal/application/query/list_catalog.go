package query

import (
	"context"

	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/knowledge"
	"github.com/eduagent-hub/edu-tutor-agent/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST CATALOG QUERY
// Static metadata for the web form: available concepts and difficulty tiers.
// ══════════════════════════════════════════════════════════════════════════════

// CatalogOption is one selectable value with a display label.
type CatalogOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ListCatalogResult lists the selectable concepts and difficulties.
type ListCatalogResult struct {
	Concepts    []CatalogOption `json:"concepts"`
	Difficulty  []CatalogOption `json:"difficulty_levels"`
	TotalTopics int             `json:"total_topics"`
}

// ListCatalogHandler serves the catalog metadata.
type ListCatalogHandler struct {
	catalog *knowledge.Catalog
}

// NewListCatalogHandler creates the handler.
func NewListCatalogHandler(catalog *knowledge.Catalog) *ListCatalogHandler {
	return &ListCatalogHandler{catalog: catalog}
}

// Handle executes the query.
func (h *ListCatalogHandler) Handle(_ context.Context) ListCatalogResult {
	concepts := h.catalog.Concepts()
	conceptOpts := make([]CatalogOption, 0, len(concepts))
	for _, c := range concepts {
		conceptOpts = append(conceptOpts, CatalogOption{
			Value: c.String(),
			Label: labelFor(c.String()),
		})
	}

	difficultyOpts := make([]CatalogOption, 0, len(shared.AllDifficulties))
	for _, d := range shared.AllDifficulties {
		difficultyOpts = append(difficultyOpts, CatalogOption{
			Value: d.String(),
			Label: labelFor(d.String()),
		})
	}

	return ListCatalogResult{
		Concepts:    conceptOpts,
		Difficulty:  difficultyOpts,
		TotalTopics: h.catalog.Len(),
	}
}

// labelFor turns "data-structures" into "Data Structures".
func labelFor(value string) string {
	out := make([]rune, 0, len(value))
	upper := true
	for _, r := range value {
		if r == '-' || r == '_' {
			out = append(out, ' ')
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		upper = false
		out = append(out, r)
	}
	return string(out)
}
