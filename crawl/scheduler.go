package crawl

import (
	edurag "github.com/Leenamgyo/EduRAG"
)

// Scheduler seeds the job queue with initial queries, deduplicating through
// the shared crawl state.
type Scheduler struct {
	queue edurag.JobQueue
	state *State
}

// NewScheduler creates a scheduler for the queue. A nil state gets a fresh
// one; share the state with workers so deduplication extends to queries
// discovered during crawling.
func NewScheduler(queue edurag.JobQueue, state *State) *Scheduler {
	if state == nil {
		state = NewState()
	}
	return &Scheduler{queue: queue, state: state}
}

// ScheduleQueries enqueues a job per query, skipping blanks and duplicates.
// Returns the number of jobs enqueued.
func (s *Scheduler) ScheduleQueries(queries ...string) int {
	count := 0
	for _, query := range queries {
		count += s.scheduleJob(edurag.NewCrawlJob(query))
	}
	return count
}

// ScheduleJobs enqueues the given jobs, skipping blanks and duplicates.
// Returns the number of jobs enqueued.
func (s *Scheduler) ScheduleJobs(jobs ...*edurag.CrawlJob) int {
	count := 0
	for _, job := range jobs {
		count += s.scheduleJob(job)
	}
	return count
}

// ScheduleProject enqueues all seeds defined within a project, stamping the
// project name, overrides, and metadata onto each job. Values already set
// on a seed win over the project-level values.
func (s *Scheduler) ScheduleProject(project *edurag.CrawlProject) int {
	count := 0
	for _, seed := range project.Seeds {
		if seed == nil {
			continue
		}
		job := &edurag.CrawlJob{
			Query:     seed.Query,
			Project:   project.Name,
			Overrides: project.Overrides.Merge(seed.Overrides),
			Metadata:  mergeMetadata(project.Metadata, seed.Metadata),
			Attempts:  seed.Attempts,
		}
		count += s.scheduleJob(job)
	}
	return count
}

func (s *Scheduler) scheduleJob(job *edurag.CrawlJob) int {
	if job == nil || job.Validate() != nil {
		return 0
	}
	if !s.state.MarkSeen(job.Query) {
		return 0
	}
	s.queue.Enqueue(job)
	return 1
}

func mergeMetadata(base, child map[string]string) map[string]string {
	if len(base) == 0 && len(child) == 0 {
		return nil
	}
	merged := make(map[string]string, len(base)+len(child))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range child {
		merged[k] = v
	}
	return merged
}
