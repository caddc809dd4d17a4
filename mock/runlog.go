package mock

import (
	"context"

	edurag "github.com/Leenamgyo/EduRAG"
)

var _ edurag.RunLog = (*RunLog)(nil)

// RunLog is a mock implementation of edurag.RunLog.
type RunLog struct {
	LogSearchRunFn func(ctx context.Context, result *edurag.SearchRunResult) (string, error)
}

func (l *RunLog) LogSearchRun(ctx context.Context, result *edurag.SearchRunResult) (string, error) {
	return l.LogSearchRunFn(ctx, result)
}
