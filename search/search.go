// Package search implements the aggregated research pipeline. A localized
// search plan is executed against a web search provider, related queries
// are discovered and searched in turn, and the most relevant pages are
// extracted and chunked for downstream ingestion.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	edurag "github.com/Leenamgyo/EduRAG"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Placeholders rendered when provider payloads omit a field. The Korean
// strings are part of the output format consumed downstream.
const (
	placeholderURL    = "URL 없음"
	placeholderTitle  = "제목 없음"
	placeholderReason = "알 수 없는 오류"
)

// Hosts excluded from content extraction. Matching is exact or by dot
// suffix, so subdomains are covered.
var blockedCrawlDomains = []string{
	"youtube.com",
	"youtu.be",
	"youtube-nocookie.com",
}

func crawlable(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Host)
	if host == "" {
		return false
	}
	for _, blocked := range blockedCrawlDomains {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return false
		}
	}
	return true
}

// Runner executes search runs against a set of injected providers.
type Runner struct {
	// Searcher executes the web searches. Required.
	Searcher edurag.Searcher

	// Extractor retrieves page content for crawl candidates. Extraction
	// is skipped when nil.
	Extractor edurag.Extractor

	// Suggester produces generative related queries. Optional; heuristic
	// discovery over provider metadata still runs without it.
	Suggester edurag.Suggester

	// Translator localizes the seed query for the English-language plan
	// requests. Optional.
	Translator edurag.Translator

	// RunLog persists completed runs. Optional.
	RunLog edurag.RunLog

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Run executes the full pipeline for query and returns the aggregated
// result. The run is logged when a RunLog is configured, and the returned
// result carries the generated run ID.
func (r *Runner) Run(ctx context.Context, query string, opts edurag.RunOptions) (*edurag.SearchRunResult, error) {
	col, err := r.gather(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	sections := append(col.sections, renderCrawledSections(col.chunks, col.failures)...)

	result := &edurag.SearchRunResult{
		BaseQuery:      query,
		Sections:       sections,
		Markdown:       strings.Join(sections, "\n\n"),
		RelatedQueries: col.related,
		Chunks:         col.chunks,
		Failures:       col.failures,
	}

	if r.RunLog != nil {
		runID, err := r.RunLog.LogSearchRun(ctx, result)
		if err != nil {
			return nil, fmt.Errorf("log search run: %w", err)
		}
		result.RunID = runID
	}

	r.logger().Debug("search run complete",
		"query", query,
		"related", len(result.RelatedQueries),
		"chunks", len(result.Chunks),
		"failures", len(result.Failures))

	return result, nil
}

// CollectAgentChunks runs the same discovery and extraction flow without
// rendering Markdown or logging the run, returning chunked output for
// agent ingestion pipelines.
func (r *Runner) CollectAgentChunks(ctx context.Context, query string, opts edurag.RunOptions) (*edurag.AgentChunkResult, error) {
	col, err := r.gather(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	return &edurag.AgentChunkResult{
		BaseQuery:      query,
		RelatedQueries: col.related,
		Chunks:         col.chunks,
		Failures:       col.failures,
		ObjectID:       uuid.New().String(),
	}, nil
}

// gather runs discovery and extraction and returns the accumulated state.
func (r *Runner) gather(ctx context.Context, query string, opts edurag.RunOptions) (*collector, error) {
	if r.Searcher == nil {
		return nil, edurag.Errorf(edurag.EINVALID, "searcher is required")
	}
	if opts.ChunkSize <= 0 {
		return nil, edurag.Errorf(edurag.EINVALID, "chunk size must be greater than zero")
	}
	if opts.ResultsPerQuery <= 0 {
		return nil, edurag.Errorf(edurag.EINVALID, "results per query must be greater than zero")
	}

	col := newCollector(opts)

	plan := edurag.BuildSearchPlan(ctx, r.Translator, query)
	if err := r.runBatch(ctx, col, plan); err != nil {
		return nil, err
	}

	col.related = r.relatedQueries(ctx, query, opts, col.contexts)
	if len(col.related) > 0 {
		lines := make([]string, 0, len(col.related))
		for i, item := range col.related {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
		}
		col.sections = append(col.sections, "### Gemini 연관 검색어\n"+strings.Join(lines, "\n"))

		requests := make([]edurag.SearchRequest, 0, len(col.related))
		for i, related := range col.related {
			requests = append(requests, edurag.SearchRequest{
				Label:   fmt.Sprintf("AI-%d", i+1),
				Query:   related,
				Options: edurag.SearchOptions{SearchDepth: "advanced"},
			})
		}
		if err := r.runBatch(ctx, col, requests); err != nil {
			return nil, err
		}
	}

	col.chunks, col.failures = r.extractChunks(ctx, col.crawlURLs, col.urlMeta, opts.ChunkSize)
	return col, nil
}

// runBatch executes a batch of search requests concurrently and absorbs
// the responses in request order, so sections, URL dedup, and crawl
// candidate selection stay deterministic.
func (r *Runner) runBatch(ctx context.Context, col *collector, requests []edurag.SearchRequest) error {
	if len(requests) == 0 {
		return nil
	}

	responses := make([]*edurag.SearchResponse, len(requests))
	errs := make([]error, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range requests {
		g.Go(func() error {
			opts := req.Options
			if opts.MaxResults <= 0 {
				opts.MaxResults = col.resultsPerQuery
			}
			responses[i], errs[i] = r.Searcher.Search(gctx, req.Query, opts)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	for i, req := range requests {
		col.absorb(req, responses[i], errs[i])
	}
	return nil
}

// relatedQueries merges generative and heuristic suggestions for the seed
// query. Suggester failures degrade to the heuristic list alone.
func (r *Runner) relatedQueries(ctx context.Context, query string, opts edurag.RunOptions, contexts []string) []string {
	if opts.RelatedLimit <= 0 {
		return nil
	}

	samples := contexts
	if n := 3 * opts.RelatedLimit; len(samples) > n {
		samples = samples[:n]
	}

	var primary []string
	if r.Suggester != nil {
		suggested, err := r.Suggester.Suggest(ctx, edurag.SuggestRequest{
			Seed:           query,
			Limit:          opts.RelatedLimit,
			Model:          opts.Model,
			Prompt:         opts.Prompt,
			ContextSamples: samples,
		})
		if err != nil {
			r.logger().Warn("generative suggestions failed", "query", query, "err", err)
		} else {
			primary = suggested
		}
	}

	fallback := DiscoverRelated(ctx, r.Searcher, query, opts.RelatedLimit)
	return edurag.MergeRelatedQueries(query, primary, fallback, opts.RelatedLimit)
}

// extractChunks fetches page content for the crawl candidates and splits
// it into chunks. A failed extraction request becomes a failure entry
// rather than an error.
func (r *Runner) extractChunks(ctx context.Context, urls []string, meta map[string]urlInfo, chunkSize int) ([]edurag.SearchChunk, []string) {
	if len(urls) == 0 || r.Extractor == nil {
		return nil, nil
	}

	resp, err := r.Extractor.Extract(ctx, urls)
	if err != nil {
		r.logger().Warn("content extraction failed", "urls", len(urls), "err", err)
		return nil, []string{"크롤링 요청 실패: " + err.Error()}
	}
	if resp == nil {
		return nil, nil
	}

	var chunks []edurag.SearchChunk
	var failures []string

	for _, page := range resp.Results {
		pageURL := page.URL
		if pageURL == "" {
			pageURL = placeholderURL
		}
		info := meta[pageURL]
		title := page.Title
		if title == "" {
			title = info.title
		}
		if title == "" {
			title = placeholderTitle
		}

		texts := edurag.ChunkText(page.Content, chunkSize)
		if len(texts) == 0 {
			// Pages with no usable body still yield one snippet chunk.
			texts = []string{edurag.CleanSnippet(page.Content)}
		}
		for i, text := range texts {
			chunks = append(chunks, edurag.SearchChunk{
				Query:       info.query,
				SourceLabel: info.label,
				URL:         pageURL,
				Title:       title,
				ChunkIndex:  i + 1,
				Content:     text,
			})
		}
	}

	for _, failure := range resp.Failures {
		failedURL := failure.URL
		if failedURL == "" {
			failedURL = placeholderURL
		}
		reason := failure.Reason
		if reason == "" {
			reason = placeholderReason
		}
		failures = append(failures, failedURL+": "+reason)
	}

	return chunks, failures
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// urlInfo tracks which request first surfaced a URL, for attributing
// extracted chunks back to their originating query.
type urlInfo struct {
	query string
	label string
	title string
}

// collector accumulates the output of executed requests in run order.
type collector struct {
	resultsPerQuery int
	crawlLimit      int

	sections  []string
	contexts  []string
	seenURLs  map[string]bool
	crawlURLs []string
	urlMeta   map[string]urlInfo

	related  []string
	chunks   []edurag.SearchChunk
	failures []string
}

func newCollector(opts edurag.RunOptions) *collector {
	return &collector{
		resultsPerQuery: opts.ResultsPerQuery,
		crawlLimit:      opts.CrawlLimit,
		seenURLs:        make(map[string]bool),
		urlMeta:         make(map[string]urlInfo),
	}
}

// absorb records one request's outcome: the rendered section, context
// samples for the suggester, URL metadata, and crawl candidates up to the
// crawl limit.
func (c *collector) absorb(req edurag.SearchRequest, resp *edurag.SearchResponse, err error) {
	section, newURLs, contexts, hits := c.processResponse(req, resp, err)
	c.sections = append(c.sections, section)
	c.contexts = append(c.contexts, contexts...)

	for _, hit := range hits {
		if hit.URL == placeholderURL || !crawlable(hit.URL) {
			continue
		}
		if _, ok := c.urlMeta[hit.URL]; ok {
			continue
		}
		c.urlMeta[hit.URL] = urlInfo{query: hit.Query, label: hit.RequestLabel, title: hit.Title}
	}

	for _, candidate := range newURLs {
		if len(c.crawlURLs) >= c.crawlLimit {
			break
		}
		if !crawlable(candidate) {
			continue
		}
		c.crawlURLs = append(c.crawlURLs, candidate)
	}
}

// processResponse renders a single request's section and captures its
// hits. URLs already seen in this run are skipped and do not count toward
// the per-query result limit.
func (c *collector) processResponse(req edurag.SearchRequest, resp *edurag.SearchResponse, err error) (section string, newURLs, contexts []string, hits []edurag.SearchHit) {
	if err != nil {
		return fmt.Sprintf("### [%s] 검색 실패\n- 오류: %s", req.Label, err), nil, nil, nil
	}
	if resp == nil || len(resp.Results) == 0 {
		return fmt.Sprintf("### [%s] 검색 결과 없음\n- 사용 쿼리: %s", req.Label, req.Query), nil, nil, nil
	}

	var lines []string
	for _, item := range resp.Results {
		pageURL := item.URL
		if pageURL == "" {
			pageURL = placeholderURL
		}
		title := item.Title
		if title == "" {
			title = placeholderTitle
		}
		snippet := edurag.CleanSnippet(item.Content)

		if pageURL != placeholderURL {
			if c.seenURLs[pageURL] {
				continue
			}
			c.seenURLs[pageURL] = true
			newURLs = append(newURLs, pageURL)
		}

		lines = append(lines, fmt.Sprintf("- **%s**\n  - URL: %s\n  - 요약: %s", title, pageURL, snippet))

		if sample := contextSample(title, item.Content); sample != "" {
			contexts = append(contexts, sample)
		}

		hits = append(hits, edurag.SearchHit{
			RequestLabel: req.Label,
			Query:        req.Query,
			Title:        title,
			URL:          pageURL,
			Snippet:      snippet,
			RawSnippet:   item.Content,
		})

		if len(lines) >= c.resultsPerQuery {
			break
		}
	}

	body := "- 신규 정보 없음"
	if len(lines) > 0 {
		body = strings.Join(lines, "\n")
	}
	return fmt.Sprintf("### [%s] 검색 결과\n- 사용 쿼리: %s\n%s", req.Label, req.Query, body), newURLs, contexts, hits
}

// contextSample condenses a hit into one sample line for the generative
// suggester, capped at 400 runes.
func contextSample(title, rawSnippet string) string {
	line := edurag.NormalizeText(title + " :: " + rawSnippet)
	if runes := []rune(line); len(runes) > 400 {
		line = string(runes[:400])
	}
	return line
}

// renderCrawledSections renders extracted chunks grouped by URL in
// first-seen order, followed by a failure listing.
func renderCrawledSections(chunks []edurag.SearchChunk, failures []string) []string {
	if len(chunks) == 0 && len(failures) == 0 {
		return nil
	}

	var order []string
	grouped := make(map[string][]edurag.SearchChunk)
	for _, chunk := range chunks {
		if _, ok := grouped[chunk.URL]; !ok {
			order = append(order, chunk.URL)
		}
		grouped[chunk.URL] = append(grouped[chunk.URL], chunk)
	}

	var sections []string
	for _, pageURL := range order {
		group := grouped[pageURL]
		lines := []string{
			"### 크롤링된 문서 청크",
			fmt.Sprintf("- **%s**\n  - URL: %s", group[0].Title, pageURL),
		}
		for _, chunk := range group {
			lines = append(lines, fmt.Sprintf("  - 청크 %d: %s", chunk.ChunkIndex, chunk.Content))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(failures) > 0 {
		lines := make([]string, 0, len(failures))
		for _, item := range failures {
			lines = append(lines, "- "+item)
		}
		sections = append(sections, "### 크롤링 실패 목록\n"+strings.Join(lines, "\n"))
	}

	return sections
}
