package edurag

import (
	"context"
	"strings"
)

// SuggestRequest carries the inputs for related-query generation.
type SuggestRequest struct {
	// Seed is the query to expand.
	Seed string

	// Limit caps the number of returned suggestions.
	Limit int

	// Model optionally overrides the generative model.
	Model string

	// Prompt optionally overrides the prompt template.
	Prompt string

	// ContextSamples are snippets from earlier search results used to
	// steer generation.
	ContextSamples []string
}

// Suggester generates related search queries for a seed query.
type Suggester interface {
	// Suggest returns up to req.Limit related queries. A limit of zero or
	// less returns no suggestions without any external call.
	Suggest(ctx context.Context, req SuggestRequest) ([]string, error)
}

// MergeRelatedQueries combines primary and fallback suggestion lists into a
// deduplicated selection. Primary entries are preferred, whitespace is
// normalized, comparison is case-insensitive, the base query itself is
// excluded, and the result is capped at limit.
func MergeRelatedQueries(base string, primary, fallback []string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	seen := map[string]bool{strings.ToLower(NormalizeText(base)): true}
	var selections []string

	for _, list := range [][]string{primary, fallback} {
		for _, candidate := range list {
			if len(selections) >= limit {
				return selections
			}
			normalized := NormalizeText(candidate)
			if normalized == "" {
				continue
			}
			lowered := strings.ToLower(normalized)
			if seen[lowered] {
				continue
			}
			seen[lowered] = true
			selections = append(selections, normalized)
		}
	}

	return selections
}
