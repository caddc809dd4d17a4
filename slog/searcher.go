// Package slog provides logging decorators for the provider interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	edurag "github.com/Leenamgyo/EduRAG"
)

// Ensure LoggingSearcher implements edurag.Searcher.
var _ edurag.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with debug logging.
type LoggingSearcher struct {
	next   edurag.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next edurag.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the operation.
func (s *LoggingSearcher) Search(ctx context.Context, query string, opts edurag.SearchOptions) (resp *edurag.SearchResponse, err error) {
	defer func(begin time.Time) {
		results := 0
		if resp != nil {
			results = len(resp.Results)
		}
		s.logger.Info("provider search",
			"query", query,
			"depth", opts.SearchDepth,
			"results", results,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query, opts)
}

// Ensure LoggingExtractor implements edurag.Extractor.
var _ edurag.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   edurag.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next edurag.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(ctx context.Context, urls []string) (resp *edurag.ExtractResponse, err error) {
	defer func(begin time.Time) {
		extracted, failed := 0, 0
		if resp != nil {
			extracted = len(resp.Results)
			failed = len(resp.Failures)
		}
		e.logger.Info("content extraction",
			"urls", len(urls),
			"extracted", extracted,
			"failed", failed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, urls)
}
