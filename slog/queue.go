package slog

import (
	"log/slog"
	"time"

	edurag "github.com/Leenamgyo/EduRAG"
)

// Ensure LoggingQueue implements edurag.JobQueue.
var _ edurag.JobQueue = (*LoggingQueue)(nil)

// LoggingQueue wraps a JobQueue with debug logging of queue traffic.
type LoggingQueue struct {
	next   edurag.JobQueue
	logger *slog.Logger
}

// NewLoggingQueue creates a new LoggingQueue.
func NewLoggingQueue(next edurag.JobQueue, logger *slog.Logger) *LoggingQueue {
	return &LoggingQueue{next: next, logger: logger}
}

// Enqueue delegates to the wrapped queue and logs the new job.
func (q *LoggingQueue) Enqueue(job *edurag.CrawlJob) {
	q.logger.Debug("job enqueued",
		"query", job.Query,
		"project", job.Project,
		"parent", job.Metadata["parent_query"],
	)
	q.next.Enqueue(job)
}

// Requeue delegates to the wrapped queue and logs the retry.
func (q *LoggingQueue) Requeue(job *edurag.CrawlJob) {
	q.logger.Debug("job requeued",
		"query", job.Query,
		"attempts", job.Attempts,
	)
	q.next.Requeue(job)
}

// Dequeue delegates to the wrapped queue and logs dequeued jobs. Idle
// timeouts are not logged; they are the steady state of a draining pool.
func (q *LoggingQueue) Dequeue(timeout time.Duration) (*edurag.CrawlJob, bool) {
	begin := time.Now()
	job, ok := q.next.Dequeue(timeout)
	if ok {
		q.logger.Debug("job dequeued",
			"query", job.Query,
			"attempts", job.Attempts,
			"wait", time.Since(begin),
		)
	}
	return job, ok
}

// Size delegates to the wrapped queue.
func (q *LoggingQueue) Size() int {
	return q.next.Size()
}
