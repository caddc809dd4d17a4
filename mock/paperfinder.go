package mock

import (
	"context"

	edurag "github.com/Leenamgyo/EduRAG"
)

var _ edurag.PaperFinder = (*PaperFinder)(nil)

// PaperFinder is a mock implementation of edurag.PaperFinder.
type PaperFinder struct {
	TopCitedFn func(ctx context.Context, keyword string, limit int) ([]edurag.Paper, error)
}

func (f *PaperFinder) TopCited(ctx context.Context, keyword string, limit int) ([]edurag.Paper, error) {
	return f.TopCitedFn(ctx, keyword, limit)
}
