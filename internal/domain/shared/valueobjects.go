// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// Concept Value Object
// ═══════════════════════════════════════════════════════════════════════════

// ConceptType identifies a subject-matter category (e.g. "algebra", "python").
// Unknown values are accepted as opaque identifiers rather than rejected:
// the resolver falls back to a generic template for them, so validation here
// is normalization only.
type ConceptType string

// Well-known concept types covered by the default catalog.
const (
	ConceptAlgebra        ConceptType = "algebra"
	ConceptCalculus       ConceptType = "calculus"
	ConceptGeometry       ConceptType = "geometry"
	ConceptPython         ConceptType = "python"
	ConceptJavaScript     ConceptType = "javascript"
	ConceptDataStructures ConceptType = "data-structures"
	ConceptAlgorithms     ConceptType = "algorithms"
	ConceptStatistics     ConceptType = "statistics"
)

// NewConceptType normalizes a raw concept string. Empty input maps to the
// empty concept; callers decide whether that is acceptable.
func NewConceptType(raw string) ConceptType {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")
	return ConceptType(s)
}

// String returns the string representation.
func (c ConceptType) String() string {
	return string(c)
}

// IsEmpty checks if the concept is empty.
func (c ConceptType) IsEmpty() bool {
	return c == ""
}

// ═══════════════════════════════════════════════════════════════════════════
// Difficulty Value Object
// ═══════════════════════════════════════════════════════════════════════════

// DifficultyLevel is the ordinal difficulty tier of an explanation.
type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

// DefaultDifficulty is substituted for unrecognized difficulty strings.
// This is a documented default, not an error (unknown difficulty never
// rejects a request).
const DefaultDifficulty = DifficultyIntermediate

// AllDifficulties lists the tiers in ascending order. The order is used only
// for nearest-match fallback, never for validation rejection.
var AllDifficulties = []DifficultyLevel{
	DifficultyBeginner,
	DifficultyIntermediate,
	DifficultyAdvanced,
}

// ParseDifficulty parses a raw difficulty string. The second return value
// reports whether the input named a known tier.
func ParseDifficulty(raw string) (DifficultyLevel, bool) {
	switch DifficultyLevel(strings.ToLower(strings.TrimSpace(raw))) {
	case DifficultyBeginner:
		return DifficultyBeginner, true
	case DifficultyIntermediate:
		return DifficultyIntermediate, true
	case DifficultyAdvanced:
		return DifficultyAdvanced, true
	default:
		return DefaultDifficulty, false
	}
}

// NormalizeDifficulty maps any raw string onto a known tier, substituting
// DefaultDifficulty for anything unrecognized.
func NormalizeDifficulty(raw string) DifficultyLevel {
	d, _ := ParseDifficulty(raw)
	return d
}

// Rank returns the position of the difficulty in the total order
// beginner < intermediate < advanced.
func (d DifficultyLevel) Rank() int {
	switch d {
	case DifficultyBeginner:
		return 0
	case DifficultyIntermediate:
		return 1
	case DifficultyAdvanced:
		return 2
	default:
		return 1
	}
}

// String returns the string representation.
func (d DifficultyLevel) String() string {
	return string(d)
}

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// StudentID identifies a student for progress tracking. It is optional on
// ask requests; an empty ID means the interaction is anonymous.
type StudentID string

// Student IDs come from external callers; keep the format permissive but
// bounded (the original accepted arbitrary short identifiers).
var studentIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]{0,63}$`)

// IsValid checks if the student ID has an acceptable format.
func (s StudentID) IsValid() bool {
	return studentIDRegex.MatchString(string(s))
}

// IsEmpty checks if the ID is empty (anonymous interaction).
func (s StudentID) IsEmpty() bool {
	return s == ""
}

// String returns the string representation.
func (s StudentID) String() string {
	return string(s)
}

// NewStudentID creates a new StudentID with validation. Empty input is
// allowed and yields the empty (anonymous) ID.
func NewStudentID(id string) (StudentID, error) {
	sid := StudentID(strings.TrimSpace(id))
	if sid.IsEmpty() {
		return "", nil
	}
	if !sid.IsValid() {
		return "", ErrInvalidStudentID
	}
	return sid, nil
}

// SessionID identifies a client session that owns one history tracker.
type SessionID string

// IsEmpty checks if the session ID is empty.
func (s SessionID) IsEmpty() bool {
	return s == ""
}

// String returns the string representation.
func (s SessionID) String() string {
	return string(s)
}
