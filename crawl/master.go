package crawl

import (
	"context"
	"log/slog"
	"time"

	edurag "github.com/Leenamgyo/EduRAG"
)

// Master coordinates a pool of workers to drain the job queue. Construct
// with NewMaster and adjust the exported fields before calling Run.
type Master struct {
	// IdleSleep bounds each idle dequeue wait.
	IdleSleep time.Duration

	// MaxIdleCycles is the number of consecutive idle rounds per worker
	// tolerated before an empty queue ends the run. Steps in this process
	// are sequential, so nothing is in flight when the empty check fires;
	// the cycle threshold exists for queue backends whose size is only
	// eventually consistent.
	MaxIdleCycles int

	// MaxJobs caps the number of processed jobs. Zero or less means no cap.
	MaxJobs int

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger

	queue   edurag.JobQueue
	workers []*Worker
}

// NewMaster creates a master over the given workers with the standard idle
// policy.
func NewMaster(queue edurag.JobQueue, workers ...*Worker) *Master {
	return &Master{
		IdleSleep:     100 * time.Millisecond,
		MaxIdleCycles: 10,
		queue:         queue,
		workers:       workers,
	}
}

// Run steps the workers round-robin until the queue stays empty past the
// idle threshold, MaxJobs is reached, or ctx is canceled. It returns the
// number of jobs processed.
func (m *Master) Run(ctx context.Context) (int, error) {
	if len(m.workers) == 0 {
		return 0, edurag.Errorf(edurag.EINVALID, "at least one worker is required")
	}

	idleSleep := m.IdleSleep
	if idleSleep <= 0 {
		idleSleep = 100 * time.Millisecond
	}
	maxIdle := m.MaxIdleCycles
	if maxIdle < 1 {
		maxIdle = 1
	}

	processed := 0
	idleCycles := 0
	for next := 0; ; next = (next + 1) % len(m.workers) {
		if m.MaxJobs > 0 && processed >= m.MaxJobs {
			break
		}
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		if m.workers[next].Step(ctx, idleSleep) {
			processed++
			idleCycles = 0
			continue
		}

		idleCycles++
		if idleCycles >= maxIdle*len(m.workers) {
			if m.queue.Size() == 0 {
				break
			}
			idleCycles = 0
		}
	}

	m.logger().Debug("master run complete", "processed", processed)
	return processed, nil
}

func (m *Master) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}
