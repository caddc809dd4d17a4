package crawl_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	edurag "github.com/Leenamgyo/EduRAG"
	"github.com/Leenamgyo/EduRAG/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaster(q *crawl.MemoryQueue, workers ...*crawl.Worker) *crawl.Master {
	master := crawl.NewMaster(q, workers...)
	master.IdleSleep = 5 * time.Millisecond
	master.MaxIdleCycles = 2
	return master
}

func TestMaster_Run_drains_queue_and_expands_related(t *testing.T) {
	t.Parallel()

	q := crawl.NewMemoryQueue()
	state := crawl.NewState()
	crawl.NewScheduler(q, state).ScheduleQueries("seed-1", "seed-2")

	var order []string
	search := func(ctx context.Context, query string, opts edurag.RunOptions) (*edurag.SearchRunResult, error) {
		order = append(order, query)
		if query == "seed-1" {
			return fakeResult(query, "seed-3"), nil
		}
		return fakeResult(query), nil
	}

	master := newTestMaster(q,
		crawl.NewWorker(q, state, search),
		crawl.NewWorker(q, state, search),
	)

	processed, err := master.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, processed)
	assert.Equal(t, 0, q.Size())
	assert.ElementsMatch(t, []string{"seed-1", "seed-2", "seed-3"}, order)
}

func TestMaster_Run_honors_MaxJobs(t *testing.T) {
	t.Parallel()

	q := crawl.NewMemoryQueue()
	state := crawl.NewState()
	scheduler := crawl.NewScheduler(q, state)
	for i := 0; i < 5; i++ {
		scheduler.ScheduleQueries(fmt.Sprintf("query-%d", i))
	}

	search := func(ctx context.Context, query string, opts edurag.RunOptions) (*edurag.SearchRunResult, error) {
		return fakeResult(query), nil
	}

	master := newTestMaster(q, crawl.NewWorker(q, state, search))
	master.MaxJobs = 3

	processed, err := master.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, processed)
	assert.Equal(t, 2, q.Size())
}

func TestMaster_Run_requires_workers(t *testing.T) {
	t.Parallel()

	master := crawl.NewMaster(crawl.NewMemoryQueue())

	_, err := master.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, edurag.EINVALID, edurag.ErrorCode(err))
}

func TestMaster_Run_stops_on_canceled_context(t *testing.T) {
	t.Parallel()

	q := crawl.NewMemoryQueue()
	state := crawl.NewState()
	crawl.NewScheduler(q, state).ScheduleQueries("seed")

	search := func(ctx context.Context, query string, opts edurag.RunOptions) (*edurag.SearchRunResult, error) {
		return fakeResult(query), nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	master := newTestMaster(q, crawl.NewWorker(q, state, search))
	processed, err := master.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, processed)
}
