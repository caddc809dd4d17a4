package search_test

import (
	"context"
	"errors"
	"testing"

	edurag "github.com/Leenamgyo/EduRAG"
	"github.com/Leenamgyo/EduRAG/mock"
	"github.com/Leenamgyo/EduRAG/search"
	"github.com/stretchr/testify/assert"
)

func metadataSearcher(metadata map[string]any, results ...edurag.SearchResult) *mock.Searcher {
	return &mock.Searcher{
		SearchFn: func(ctx context.Context, query string, opts edurag.SearchOptions) (*edurag.SearchResponse, error) {
			return &edurag.SearchResponse{Results: results, Metadata: metadata}, nil
		},
	}
}

func TestDiscoverRelated_mines_suggestion_metadata(t *testing.T) {
	t.Parallel()

	var probed edurag.SearchOptions
	searcher := &mock.Searcher{
		SearchFn: func(ctx context.Context, query string, opts edurag.SearchOptions) (*edurag.SearchResponse, error) {
			probed = opts
			return &edurag.SearchResponse{Metadata: map[string]any{
				"follow_up_questions": []string{" Deep  Learning ", "deep learning", "Base Query"},
			}}, nil
		},
	}

	related := search.DiscoverRelated(context.Background(), searcher, "Base Query", 5)

	// Whitespace is normalized, duplicates and the base query are dropped.
	assert.Equal(t, []string{"Deep Learning"}, related)

	assert.Equal(t, "advanced", probed.SearchDepth)
	assert.Equal(t, "advanced", probed.IncludeAnswer)
	assert.True(t, probed.AutoParameters)
	assert.Equal(t, 8, probed.MaxResults)
}

func TestDiscoverRelated_walks_nested_structures(t *testing.T) {
	t.Parallel()

	searcher := metadataSearcher(map[string]any{
		"query_graph": map[string]any{
			"query": "Root Query",
			"children": []any{
				map[string]any{"label": "Child A"},
				"plain string",
			},
		},
	})

	related := search.DiscoverRelated(context.Background(), searcher, "seed", 10)
	assert.Equal(t, []string{"Root Query", "Child A", "plain string"}, related)
}

func TestDiscoverRelated_falls_back_to_result_titles(t *testing.T) {
	t.Parallel()

	searcher := metadataSearcher(nil,
		edurag.SearchResult{Title: "Title One"},
		edurag.SearchResult{Title: ""},
		edurag.SearchResult{Title: "Title One"},
		edurag.SearchResult{Title: "Title Two"},
	)

	related := search.DiscoverRelated(context.Background(), searcher, "seed", 5)
	assert.Equal(t, []string{"Title One", "Title Two"}, related)
}

func TestDiscoverRelated_respects_limit(t *testing.T) {
	t.Parallel()

	searcher := metadataSearcher(map[string]any{
		"related_queries": []string{"One", "Two", "Three", "Four"},
	})

	related := search.DiscoverRelated(context.Background(), searcher, "seed", 2)
	assert.Equal(t, []string{"One", "Two"}, related)
}

func TestDiscoverRelated_degrades_on_failure(t *testing.T) {
	t.Parallel()

	failing := &mock.Searcher{
		SearchFn: func(ctx context.Context, query string, opts edurag.SearchOptions) (*edurag.SearchResponse, error) {
			return nil, errors.New("provider down")
		},
	}

	assert.Nil(t, search.DiscoverRelated(context.Background(), failing, "seed", 5))
	assert.Nil(t, search.DiscoverRelated(context.Background(), nil, "seed", 5))
	assert.Nil(t, search.DiscoverRelated(context.Background(), metadataSearcher(nil), "seed", 0))
}
