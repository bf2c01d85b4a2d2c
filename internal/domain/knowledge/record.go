// Package knowledge contains the static explanation catalog and the resolver
// that maps a (concept, difficulty) pair to instructional content. The catalog
// is built once at startup and shared read-only; resolution never fails and
// never returns an absent record.
package knowledge

// ExplanationRecord is the four-part content bundle returned for a
// concept/difficulty pair. It is an immutable value: every record handed to a
// caller has all four fields populated (the resolver's fallback guarantees
// this even for unknown input).
type ExplanationRecord struct {
	// Explanation is the main explanation text.
	Explanation string `json:"explanation"`

	// KeyPoints are the key takeaways, in teaching order. Never empty.
	KeyPoints []string `json:"key_points"`

	// Examples are worked examples, in teaching order.
	Examples []string `json:"examples"`

	// PracticeProblems are suggested exercises, in teaching order.
	PracticeProblems []string `json:"practice_problems"`
}

// IsComplete reports whether all four content fields are present.
// KeyPoints must be non-empty; the sequence fields must be non-nil.
func (r ExplanationRecord) IsComplete() bool {
	return r.Explanation != "" &&
		len(r.KeyPoints) > 0 &&
		r.Examples != nil &&
		r.PracticeProblems != nil
}

// clone returns a deep copy so callers can never mutate catalog state
// through a returned record.
func (r ExplanationRecord) clone() ExplanationRecord {
	out := ExplanationRecord{
		Explanation:      r.Explanation,
		KeyPoints:        make([]string, len(r.KeyPoints)),
		Examples:         make([]string, len(r.Examples)),
		PracticeProblems: make([]string, len(r.PracticeProblems)),
	}
	copy(out.KeyPoints, r.KeyPoints)
	copy(out.Examples, r.Examples)
	copy(out.PracticeProblems, r.PracticeProblems)
	return out
}
