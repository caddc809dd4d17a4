package mock

import (
	"time"

	edurag "github.com/Leenamgyo/EduRAG"
)

var _ edurag.JobQueue = (*JobQueue)(nil)

// JobQueue is a mock implementation of edurag.JobQueue.
type JobQueue struct {
	EnqueueFn func(job *edurag.CrawlJob)
	RequeueFn func(job *edurag.CrawlJob)
	DequeueFn func(timeout time.Duration) (*edurag.CrawlJob, bool)
	SizeFn    func() int
}

func (q *JobQueue) Enqueue(job *edurag.CrawlJob) {
	q.EnqueueFn(job)
}

func (q *JobQueue) Requeue(job *edurag.CrawlJob) {
	q.RequeueFn(job)
}

func (q *JobQueue) Dequeue(timeout time.Duration) (*edurag.CrawlJob, bool) {
	return q.DequeueFn(timeout)
}

func (q *JobQueue) Size() int {
	return q.SizeFn()
}
