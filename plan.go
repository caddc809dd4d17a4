package edurag

import (
	"context"
	"strings"
)

// Translator converts query text between languages.
type Translator interface {
	// Translate renders text in the target language (ISO 639-1 code).
	Translate(ctx context.Context, text, target string) (string, error)
}

// BuildSearchPlan creates the list of focused searches for a seed query:
// a Korean-locale pass over institutional education domains, an English
// pass over international research domains using the translated query, and
// an unrestricted global pass with advanced depth. A nil translator or a
// failed translation falls back to the original query.
func BuildSearchPlan(ctx context.Context, translator Translator, query string) []SearchRequest {
	plan := make([]SearchRequest, 0, 3)

	plan = append(plan, SearchRequest{
		Label: "KO",
		Query: query,
		Options: SearchOptions{
			Language:       "ko",
			IncludeDomains: []string{"moe.go.kr", "kedi.re.kr", "ac.kr", "go.kr"},
		},
	})

	englishQuery := translateQuery(ctx, translator, query)

	plan = append(plan, SearchRequest{
		Label: "EN",
		Query: englishQuery,
		Options: SearchOptions{
			Language: "en",
			IncludeDomains: []string{
				"oecd.org",
				"unesco.org",
				"worldbank.org",
				"eric.ed.gov",
				"ed.gov",
				"brookings.edu",
			},
		},
	})

	plan = append(plan, SearchRequest{
		Label: "GLOBAL",
		Query: englishQuery,
		Options: SearchOptions{
			Language:    "en",
			SearchDepth: "advanced",
		},
	})

	return plan
}

// translateQuery attempts an English translation, degrading to the original
// query when no translator is configured or the call fails.
func translateQuery(ctx context.Context, translator Translator, query string) string {
	if translator == nil {
		return query
	}

	translated, err := translator.Translate(ctx, query, "en")
	if err != nil {
		return query
	}
	if trimmed := strings.TrimSpace(translated); trimmed != "" {
		return trimmed
	}
	return query
}
