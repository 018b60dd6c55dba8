package domain

import (
	"strings"
	"time"
)

// SuggestionSetID is the fixed storage key of the singleton suggestion record.
const SuggestionSetID = "suggestions"

// SuggestionSet maps a product field name to an ordered list of suggested
// values, deduplicated case-insensitively. There is exactly one per shop.
type SuggestionSet struct {
	ID          string              `json:"id"`
	Suggestions map[string][]string `json:"suggestions"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// DedupeSuggestions removes empty and case-insensitive duplicate entries while
// preserving first-seen order.
func DedupeSuggestions(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		folded := strings.ToLower(trimmed)
		if _, ok := seen[folded]; ok {
			continue
		}
		seen[folded] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
