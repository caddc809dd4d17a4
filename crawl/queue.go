package crawl

import (
	"sync"
	"time"

	edurag "github.com/Leenamgyo/EduRAG"
)

// Compile-time interface verification.
var _ edurag.JobQueue = (*MemoryQueue)(nil)

// MemoryQueue is a FIFO job queue held in process memory. It implements the
// minimal queue contract so alternate backends (e.g. Redis) can be dropped
// in. Safe for concurrent use by multiple goroutines.
type MemoryQueue struct {
	mu   sync.Mutex
	cond *sync.Cond
	jobs []*edurag.CrawlJob
}

// NewMemoryQueue creates an empty in-memory job queue.
func NewMemoryQueue() *MemoryQueue {
	q := &MemoryQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue adds a job to the back of the queue.
func (q *MemoryQueue) Enqueue(job *edurag.CrawlJob) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.jobs = append(q.jobs, job)
	q.cond.Signal()
}

// Requeue reinserts a job at the front of the queue so retries run before
// previously queued work.
func (q *MemoryQueue) Requeue(job *edurag.CrawlJob) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.jobs = append([]*edurag.CrawlJob{job}, q.jobs...)
	q.cond.Signal()
}

// Dequeue pops the next job, waiting up to timeout for one to arrive.
// A non-positive timeout polls without waiting.
func (q *MemoryQueue) Dequeue(timeout time.Duration) (*edurag.CrawlJob, bool) {
	deadline := time.Now().Add(timeout)

	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.jobs) == 0 {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, false
		}
		// Wake this waiter at the deadline; the loop re-checks how much
		// time is left, so stray broadcasts are harmless.
		timer := time.AfterFunc(remaining, q.cond.Broadcast)
		q.cond.Wait()
		timer.Stop()
	}

	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, true
}

// Size returns the number of jobs currently waiting in the queue.
func (q *MemoryQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.jobs)
}
