package mock

import (
	"context"

	edurag "github.com/Leenamgyo/EduRAG"
)

var _ edurag.Suggester = (*Suggester)(nil)

// Suggester is a mock implementation of edurag.Suggester.
type Suggester struct {
	SuggestFn func(ctx context.Context, req edurag.SuggestRequest) ([]string, error)
}

func (s *Suggester) Suggest(ctx context.Context, req edurag.SuggestRequest) ([]string, error) {
	return s.SuggestFn(ctx, req)
}
