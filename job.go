package edurag

import "time"

// CrawlJob describes a single unit of crawling work pulled from the queue.
type CrawlJob struct {
	// Seed query that drives the search plan.
	Query string `json:"query"`

	// Optional project name the job belongs to.
	Project string `json:"project,omitempty"`

	// Per-job option overrides applied on top of the worker defaults.
	Overrides *SearchOverrides `json:"overrides,omitempty"`

	// Free-form provenance metadata. Jobs discovered through related-query
	// expansion carry the spawning query under "parent_query".
	Metadata map[string]string `json:"metadata,omitempty"`

	// Number of failed executions so far.
	Attempts int `json:"attempts"`
}

// NewCrawlJob returns a job for the given seed query.
func NewCrawlJob(query string) *CrawlJob {
	return &CrawlJob{Query: query}
}

// NormalizedQuery returns the canonical representation used for deduplication.
func (j *CrawlJob) NormalizedQuery() string {
	return NormalizeText(j.Query)
}

// Validate returns an error if the job cannot be scheduled.
func (j *CrawlJob) Validate() error {
	if j.NormalizedQuery() == "" {
		return Errorf(EINVALID, "job query required")
	}
	return nil
}

// CrawlProject groups related crawl jobs executed together. Project-level
// overrides and metadata are stamped onto each seed at scheduling time;
// values already set on a seed win.
type CrawlProject struct {
	Name      string            `json:"name"`
	Seeds     []*CrawlJob       `json:"seeds"`
	Overrides *SearchOverrides  `json:"overrides,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// SearchOverrides carries optional per-job settings for a search run.
// A nil field inherits the worker default; a set field wins even when it
// holds the zero value.
type SearchOverrides struct {
	RelatedLimit    *int    `json:"related_limit,omitempty"`
	CrawlLimit      *int    `json:"crawl_limit,omitempty"`
	ResultsPerQuery *int    `json:"results_per_query,omitempty"`
	ChunkSize       *int    `json:"chunk_size,omitempty"`
	Model           *string `json:"model,omitempty"`
	Prompt          *string `json:"prompt,omitempty"`
}

// Apply returns opts with the set override fields replaced.
func (o *SearchOverrides) Apply(opts RunOptions) RunOptions {
	if o == nil {
		return opts
	}
	if o.RelatedLimit != nil {
		opts.RelatedLimit = *o.RelatedLimit
	}
	if o.CrawlLimit != nil {
		opts.CrawlLimit = *o.CrawlLimit
	}
	if o.ResultsPerQuery != nil {
		opts.ResultsPerQuery = *o.ResultsPerQuery
	}
	if o.ChunkSize != nil {
		opts.ChunkSize = *o.ChunkSize
	}
	if o.Model != nil {
		opts.Model = *o.Model
	}
	if o.Prompt != nil {
		opts.Prompt = *o.Prompt
	}
	return opts
}

// Merge combines two override sets, with fields from other taking precedence.
// Either argument may be nil.
func (o *SearchOverrides) Merge(other *SearchOverrides) *SearchOverrides {
	if o == nil {
		return other
	}
	if other == nil {
		return o
	}
	merged := *o
	if other.RelatedLimit != nil {
		merged.RelatedLimit = other.RelatedLimit
	}
	if other.CrawlLimit != nil {
		merged.CrawlLimit = other.CrawlLimit
	}
	if other.ResultsPerQuery != nil {
		merged.ResultsPerQuery = other.ResultsPerQuery
	}
	if other.ChunkSize != nil {
		merged.ChunkSize = other.ChunkSize
	}
	if other.Model != nil {
		merged.Model = other.Model
	}
	if other.Prompt != nil {
		merged.Prompt = other.Prompt
	}
	return &merged
}

// JobQueue is the minimal interface required of a job queue backend so that
// alternate implementations (e.g. Redis) can be dropped in.
// Implementations must be safe for concurrent use.
type JobQueue interface {
	// Enqueue adds a job to the back of the queue.
	Enqueue(job *CrawlJob)

	// Requeue reinserts a job at the front of the queue (used for retries).
	Requeue(job *CrawlJob)

	// Dequeue pops a job from the front of the queue, waiting up to timeout
	// for one to arrive. Returns false if no job became available.
	Dequeue(timeout time.Duration) (*CrawlJob, bool)

	// Size returns the number of jobs currently waiting in the queue.
	Size() int
}
