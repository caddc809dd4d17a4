package edurag

import "context"

// RunLog persists the outcome of search runs for later inspection.
type RunLog interface {
	// LogSearchRun stores the run and its chunks, returning the generated
	// run ID.
	LogSearchRun(ctx context.Context, result *SearchRunResult) (string, error)
}
