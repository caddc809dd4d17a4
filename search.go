package edurag

import "context"

// RunOptions control a single search pipeline run.
type RunOptions struct {
	// Number of related queries to request from the suggesters.
	// Zero or negative disables related-query discovery.
	RelatedLimit int

	// Maximum number of URLs extracted for detailed content.
	// Zero or negative disables extraction.
	CrawlLimit int

	// Number of provider results kept per executed query.
	ResultsPerQuery int

	// Character count for each extracted chunk.
	ChunkSize int

	// Optional model identifier for generative suggestions.
	Model string

	// Optional prompt template override for generative suggestions.
	Prompt string
}

// DefaultRunOptions returns the standard settings for a search run.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		RelatedLimit:    5,
		CrawlLimit:      5,
		ResultsPerQuery: 5,
		ChunkSize:       500,
	}
}

// SearchOptions configure a single provider search call.
type SearchOptions struct {
	Language       string
	IncludeDomains []string
	SearchDepth    string
	MaxResults     int
	IncludeAnswer  string
	AutoParameters bool
}

// SearchResult is a single raw provider hit.
type SearchResult struct {
	Title   string
	URL     string
	Content string
}

// SearchResponse is the provider payload for one search call.
type SearchResponse struct {
	Results []SearchResult

	// Provider extras such as follow-up questions or query graphs.
	// Heuristic related-query discovery mines string values out of it.
	Metadata map[string]any
}

// Searcher executes web searches against an external provider.
// Implementations must be safe for concurrent use.
type Searcher interface {
	Search(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error)
}

// ExtractedPage is the extracted content of a single URL.
type ExtractedPage struct {
	URL     string
	Title   string
	Content string
}

// ExtractFailure reports a URL the provider could not extract.
type ExtractFailure struct {
	URL    string
	Reason string
}

// ExtractResponse is the provider payload for one extract call.
type ExtractResponse struct {
	Results  []ExtractedPage
	Failures []ExtractFailure
}

// Extractor retrieves page content for a batch of URLs.
type Extractor interface {
	Extract(ctx context.Context, urls []string) (*ExtractResponse, error)
}

// SearchRequest is a single provider search within a larger search plan.
type SearchRequest struct {
	Label   string
	Query   string
	Options SearchOptions
}

// SearchHit is a provider hit captured for downstream processing.
type SearchHit struct {
	RequestLabel string
	Query        string
	Title        string
	URL          string
	Snippet      string
	RawSnippet   string
}
