package mock

import (
	"context"

	edurag "github.com/Leenamgyo/EduRAG"
)

var _ edurag.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of edurag.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, urls []string) (*edurag.ExtractResponse, error)
}

func (e *Extractor) Extract(ctx context.Context, urls []string) (*edurag.ExtractResponse, error) {
	return e.ExtractFn(ctx, urls)
}
