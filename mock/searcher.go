package mock

import (
	"context"

	edurag "github.com/Leenamgyo/EduRAG"
)

var _ edurag.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of edurag.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string, opts edurag.SearchOptions) (*edurag.SearchResponse, error)
}

func (s *Searcher) Search(ctx context.Context, query string, opts edurag.SearchOptions) (*edurag.SearchResponse, error) {
	return s.SearchFn(ctx, query, opts)
}
