package search

import (
	"context"
	"sort"

	edurag "github.com/Leenamgyo/EduRAG"
)

// Metadata keys mined for related-query candidates, in preference order.
var suggestionKeys = []string{
	"follow_up_questions",
	"related_questions",
	"related_queries",
	"query_suggestions",
	"suggested_queries",
}

// String-bearing fields checked first when walking nested metadata maps.
var suggestionFields = []string{"label", "query", "title", "question", "text", "name"}

// DiscoverRelated mines the search provider's own metadata for related
// queries: an advanced-depth probe is issued and its suggestion fields are
// walked for string leaves, falling back to result titles. Failures return
// an empty list.
func DiscoverRelated(ctx context.Context, searcher edurag.Searcher, query string, limit int) []string {
	if searcher == nil || limit <= 0 {
		return nil
	}

	resp, err := searcher.Search(ctx, query, edurag.SearchOptions{
		SearchDepth:    "advanced",
		IncludeAnswer:  "advanced",
		AutoParameters: true,
		MaxResults:     8,
	})
	if err != nil || resp == nil {
		return nil
	}

	var candidates []string
	for _, key := range suggestionKeys {
		candidates = append(candidates, collectStrings(resp.Metadata[key])...)
	}
	candidates = append(candidates, collectStrings(resp.Metadata["query_graph"])...)

	if len(candidates) == 0 {
		for _, result := range resp.Results {
			candidates = append(candidates, result.Title)
		}
	}

	return edurag.MergeRelatedQueries(query, candidates, nil, limit)
}

// collectStrings extracts string leaves from nested provider metadata.
// Known string-bearing fields of a map are taken first, then container
// values are walked in sorted key order to keep the output deterministic.
func collectStrings(value any) []string {
	var items []string
	switch v := value.(type) {
	case string:
		items = append(items, v)
	case []string:
		items = append(items, v...)
	case []any:
		for _, element := range v {
			items = append(items, collectStrings(element)...)
		}
	case map[string]any:
		for _, field := range suggestionFields {
			if s, ok := v[field].(string); ok {
				items = append(items, s)
			}
		}
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			switch v[key].(type) {
			case []string, []any, map[string]any:
				items = append(items, collectStrings(v[key])...)
			}
		}
	}
	return items
}
