// Package redis provides a Redis-backed job queue so crawl runs can share
// work across processes.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	edurag "github.com/Leenamgyo/EduRAG"
)

// DefaultKey is the Redis list holding pending jobs.
const DefaultKey = "edurag:crawl:jobs"

// Ensure JobQueue implements edurag.JobQueue at compile time.
var _ edurag.JobQueue = (*JobQueue)(nil)

// JobQueue implements the crawl job queue on a Redis list. Jobs are stored
// as JSON payloads; new work goes to the tail and retries to the head, so
// the list preserves the in-memory queue's ordering semantics.
//
// The queue contract carries no errors, so transport failures are logged
// and surface as an absent job or a zero size. Workers treat that the same
// as an idle queue and the master's quiescence check ends the run.
type JobQueue struct {
	client *redis.Client
	key    string

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Option configures a JobQueue.
type Option func(*JobQueue)

// WithKey overrides the Redis list key, so runs can be isolated per
// project or environment.
func WithKey(key string) Option {
	return func(q *JobQueue) {
		q.key = key
	}
}

// NewJobQueue creates a queue backed by the Redis instance at addr.
func NewJobQueue(addr string, opts ...Option) *JobQueue {
	q := &JobQueue{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		key:    DefaultKey,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Close closes the underlying Redis client.
func (q *JobQueue) Close() error {
	return q.client.Close()
}

// Enqueue appends the job to the tail of the list.
func (q *JobQueue) Enqueue(job *edurag.CrawlJob) {
	q.push(job, q.client.RPush)
}

// Requeue inserts the job at the head of the list so retries run before
// previously queued work.
func (q *JobQueue) Requeue(job *edurag.CrawlJob) {
	q.push(job, q.client.LPush)
}

func (q *JobQueue) push(job *edurag.CrawlJob, op func(ctx context.Context, key string, values ...any) *redis.IntCmd) {
	payload, err := json.Marshal(job)
	if err != nil {
		q.logger().Error("encode job failed", "key", q.key, "err", err)
		return
	}
	if err := op(context.Background(), q.key, payload).Err(); err != nil {
		q.logger().Error("push job failed", "key", q.key, "err", err)
	}
}

// Dequeue pops the next job, blocking in Redis up to timeout. Returns
// false when no job became available or the payload could not be decoded.
func (q *JobQueue) Dequeue(timeout time.Duration) (*edurag.CrawlJob, bool) {
	if timeout <= 0 {
		timeout = time.Millisecond
	}

	values, err := q.client.BLPop(context.Background(), timeout, q.key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			q.logger().Error("pop job failed", "key", q.key, "err", err)
		}
		return nil, false
	}
	// BLPOP returns the key followed by the popped value.
	if len(values) < 2 {
		return nil, false
	}

	var job edurag.CrawlJob
	if err := json.Unmarshal([]byte(values[1]), &job); err != nil {
		q.logger().Error("decode job failed", "key", q.key, "err", err)
		return nil, false
	}
	return &job, true
}

// Size returns the number of jobs waiting in the list. Transport failures
// report zero.
func (q *JobQueue) Size() int {
	n, err := q.client.LLen(context.Background(), q.key).Result()
	if err != nil {
		q.logger().Error("queue size failed", "key", q.key, "err", err)
		return 0
	}
	return int(n)
}

func (q *JobQueue) logger() *slog.Logger {
	if q.Logger != nil {
		return q.Logger
	}
	return slog.Default()
}
