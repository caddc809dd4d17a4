package main

import (
	"context"
	"fmt"

	edurag "github.com/Leenamgyo/EduRAG"
	"github.com/Leenamgyo/EduRAG/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if c.Workers < 1 {
		err := edurag.Errorf(edurag.EINVALID, "workers must be at least 1")
		fmt.Fprintf(deps.Stderr, "error: %s\n", edurag.ErrorMessage(err))
		return err
	}

	state := crawl.NewState()
	scheduler := crawl.NewScheduler(deps.Queue, state)

	seeds := make([]*edurag.CrawlJob, 0, len(c.Seeds))
	for _, seed := range c.Seeds {
		seeds = append(seeds, edurag.NewCrawlJob(seed))
	}

	scheduled := scheduler.ScheduleProject(&edurag.CrawlProject{
		Name:  c.Project,
		Seeds: seeds,
	})
	if scheduled == 0 {
		err := edurag.Errorf(edurag.EINVALID, "no valid seed queries to schedule")
		fmt.Fprintf(deps.Stderr, "error: %s\n", edurag.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "%d개 시드 쿼리 예약됨\n", scheduled)

	defaults := edurag.RunOptions{
		RelatedLimit:    c.RelatedLimit,
		CrawlLimit:      c.CrawlLimit,
		ResultsPerQuery: c.ResultsPerQuery,
		ChunkSize:       c.ChunkSize,
	}

	workers := make([]*crawl.Worker, 0, c.Workers)
	for i := 0; i < c.Workers; i++ {
		worker := crawl.NewWorker(deps.Queue, state, deps.Search)
		worker.Name = fmt.Sprintf("worker-%d", i+1)
		worker.Defaults = defaults
		worker.EnqueueRelated = !c.NoExpand
		worker.MaxRetries = c.MaxRetries
		worker.Logger = deps.Logger
		worker.Handler = func(_ context.Context, job *edurag.CrawlJob, result *edurag.SearchRunResult) error {
			fmt.Fprintf(deps.Stdout, "완료: %s (청크 %d개, 연관 검색어 %d개)\n",
				job.Query, len(result.Chunks), len(result.RelatedQueries))
			return nil
		}
		workers = append(workers, worker)
	}

	master := crawl.NewMaster(deps.Queue, workers...)
	master.MaxJobs = c.MaxJobs
	master.Logger = deps.Logger

	processed, err := master.Run(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", edurag.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "\n크롤링 완료: %d개 작업 처리됨\n", processed)
	return nil
}
