package crawl

import (
	"context"
	"log/slog"
	"time"

	edurag "github.com/Leenamgyo/EduRAG"
)

// SearchFunc executes the search pipeline for a single query.
type SearchFunc func(ctx context.Context, query string, opts edurag.RunOptions) (*edurag.SearchRunResult, error)

// ResultHandler receives the outcome of each successfully processed job.
type ResultHandler func(ctx context.Context, job *edurag.CrawlJob, result *edurag.SearchRunResult) error

// Worker processes crawl jobs pulled from the queue. Construct with
// NewWorker and adjust the exported fields before first use.
type Worker struct {
	// Defaults are the run options for jobs without overrides. Job
	// overrides are applied on top and win even when zero.
	Defaults edurag.RunOptions

	// Handler receives each successful result. Handler errors are logged
	// but the job is not retried: the search itself succeeded and its
	// side effects must not replay.
	Handler ResultHandler

	// EnqueueRelated controls whether related queries discovered by a run
	// are scheduled as child jobs.
	EnqueueRelated bool

	// MaxRetries bounds how many times a failed job is requeued.
	MaxRetries int

	// Name identifies the worker in logs.
	Name string

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger

	queue  edurag.JobQueue
	state  *State
	search SearchFunc
}

// NewWorker creates a worker with the standard retry policy and run
// options. A nil state gets a fresh one; share the state across workers
// and the scheduler so deduplication spans the whole run.
func NewWorker(queue edurag.JobQueue, state *State, search SearchFunc) *Worker {
	if state == nil {
		state = NewState()
	}
	return &Worker{
		Defaults:       edurag.DefaultRunOptions(),
		EnqueueRelated: true,
		MaxRetries:     2,
		Name:           "worker",
		queue:          queue,
		state:          state,
		search:         search,
	}
}

// Step attempts to process a single job, waiting up to timeout for one to
// arrive. It reports whether a job was processed, regardless of outcome.
// Failed jobs go back to the front of the queue until the retry budget is
// spent, then are dropped.
func (w *Worker) Step(ctx context.Context, timeout time.Duration) bool {
	job, ok := w.queue.Dequeue(timeout)
	if !ok {
		return false
	}

	if err := w.execute(ctx, job); err != nil {
		w.logger().Error("job failed",
			"worker", w.Name,
			"query", job.NormalizedQuery(),
			"attempts", job.Attempts,
			"err", err,
		)
		if job.Attempts < w.MaxRetries {
			job.Attempts++
			w.queue.Requeue(job)
		}
	}
	return true
}

func (w *Worker) execute(ctx context.Context, job *edurag.CrawlJob) error {
	opts := job.Overrides.Apply(w.Defaults)

	result, err := w.search(ctx, job.Query, opts)
	if err != nil {
		return err
	}

	if w.Handler != nil {
		if err := w.Handler(ctx, job, result); err != nil {
			w.logger().Error("result handler failed",
				"worker", w.Name,
				"query", job.NormalizedQuery(),
				"err", err,
			)
		}
	}

	if w.EnqueueRelated {
		w.enqueueChildren(job, result.RelatedQueries)
	}

	return nil
}

// enqueueChildren schedules related queries as child jobs. Children inherit
// the project, overrides, and metadata of the parent and record the
// spawning query under the parent_query metadata key.
func (w *Worker) enqueueChildren(job *edurag.CrawlJob, related []string) {
	for _, query := range related {
		if !w.state.MarkSeen(query) {
			continue
		}

		metadata := make(map[string]string, len(job.Metadata)+1)
		for k, v := range job.Metadata {
			metadata[k] = v
		}
		metadata["parent_query"] = job.Query

		w.queue.Enqueue(&edurag.CrawlJob{
			Query:     query,
			Project:   job.Project,
			Overrides: job.Overrides,
			Metadata:  metadata,
		})
	}
}

func (w *Worker) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
