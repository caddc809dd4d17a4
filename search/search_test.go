package search_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	edurag "github.com/Leenamgyo/EduRAG"
	"github.com/Leenamgyo/EduRAG/mock"
	"github.com/Leenamgyo/EduRAG/search"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requestKey classifies an issued search call by its options so fake
// responses stay deterministic under concurrent execution.
func requestKey(query string, opts edurag.SearchOptions) string {
	switch {
	case opts.AutoParameters:
		return "probe"
	case opts.Language == "ko":
		return "ko"
	case len(opts.IncludeDomains) > 0:
		return "en"
	case opts.Language == "en":
		return "global"
	default:
		return "ai-" + query
	}
}

func scriptedSearcher(calls *[]string, mu *sync.Mutex, probeMetadata map[string]any) *mock.Searcher {
	return &mock.Searcher{
		SearchFn: func(ctx context.Context, query string, opts edurag.SearchOptions) (*edurag.SearchResponse, error) {
			key := requestKey(query, opts)
			mu.Lock()
			*calls = append(*calls, key)
			mu.Unlock()

			if key == "probe" {
				return &edurag.SearchResponse{Metadata: probeMetadata}, nil
			}
			slug := strings.ReplaceAll(key, " ", "-")
			return &edurag.SearchResponse{Results: []edurag.SearchResult{{
				Title:   "Result " + key,
				URL:     "https://example.com/" + slug,
				Content: "Snippet for " + query,
			}}}, nil
		},
	}
}

func TestRunner_Run_aggregates_sections_and_related_queries(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		calls []string
	)
	searcher := scriptedSearcher(&calls, &mu, map[string]any{
		"follow_up_questions": []string{"Shared Topic", "Fallback Only"},
	})

	var suggestReq edurag.SuggestRequest
	suggester := &mock.Suggester{
		SuggestFn: func(ctx context.Context, req edurag.SuggestRequest) ([]string, error) {
			suggestReq = req
			return []string{"Gemini Primary", "Shared Topic"}, nil
		},
	}

	var extractedURLs []string
	extractor := &mock.Extractor{
		ExtractFn: func(ctx context.Context, urls []string) (*edurag.ExtractResponse, error) {
			extractedURLs = urls
			return &edurag.ExtractResponse{
				Results:  []edurag.ExtractedPage{{URL: urls[0], Content: "crawled text"}},
				Failures: []edurag.ExtractFailure{{URL: "https://example.com/legacy", Reason: "timeout"}},
			}, nil
		},
	}

	var logged *edurag.SearchRunResult
	runLog := &mock.RunLog{
		LogSearchRunFn: func(ctx context.Context, result *edurag.SearchRunResult) (string, error) {
			logged = result
			return "run-123", nil
		},
	}

	runner := &search.Runner{
		Searcher:  searcher,
		Extractor: extractor,
		Suggester: suggester,
		RunLog:    runLog,
	}

	result, err := runner.Run(context.Background(), "기초 학력 격차", edurag.RunOptions{
		RelatedLimit:    3,
		CrawlLimit:      1,
		ResultsPerQuery: 1,
		ChunkSize:       200,
		Model:           "custom-gemini",
	})
	require.NoError(t, err)

	assert.Equal(t, "기초 학력 격차", result.BaseQuery)
	assert.Equal(t, []string{"Gemini Primary", "Shared Topic", "Fallback Only"}, result.RelatedQueries)
	assert.Equal(t, strings.Join(result.Sections, "\n\n"), result.Markdown)
	assert.True(t, strings.HasPrefix(result.Sections[0], "### [KO] 검색 결과"))
	assert.Contains(t, result.Markdown, "### Gemini 연관 검색어\n1. Gemini Primary")
	assert.Contains(t, result.Markdown, "### [AI-1] 검색 결과")
	assert.Equal(t, "run-123", result.RunID)
	assert.Same(t, result, logged)

	// The crawl limit keeps only the first plan hit for extraction, and
	// the resulting chunk is attributed to the request that surfaced it.
	assert.Equal(t, []string{"https://example.com/ko"}, extractedURLs)
	require.Len(t, result.Chunks, 1)
	assert.Equal(t, "crawled text", result.Chunks[0].Content)
	assert.Equal(t, "기초 학력 격차", result.Chunks[0].Query)
	assert.Equal(t, "KO", result.Chunks[0].SourceLabel)
	assert.Equal(t, "Result ko", result.Chunks[0].Title)
	assert.Equal(t, 1, result.Chunks[0].ChunkIndex)
	assert.Equal(t, []string{"https://example.com/legacy: timeout"}, result.Failures)
	assert.Contains(t, result.Markdown, "### 크롤링된 문서 청크")
	assert.Contains(t, result.Markdown, "### 크롤링 실패 목록\n- https://example.com/legacy: timeout")

	assert.Equal(t, "기초 학력 격차", suggestReq.Seed)
	assert.Equal(t, 3, suggestReq.Limit)
	assert.Equal(t, "custom-gemini", suggestReq.Model)
	assert.Empty(t, suggestReq.Prompt)
	assert.NotEmpty(t, suggestReq.ContextSamples)
	assert.LessOrEqual(t, len(suggestReq.ContextSamples), 9)

	// 3 plan requests, 1 discovery probe, 3 related follow-ups.
	assert.ElementsMatch(t, []string{
		"ko", "en", "global", "probe",
		"ai-Gemini Primary", "ai-Shared Topic", "ai-Fallback Only",
	}, calls)
}

func TestRunner_Run_renders_failure_and_empty_sections(t *testing.T) {
	t.Parallel()

	searcher := &mock.Searcher{
		SearchFn: func(ctx context.Context, query string, opts edurag.SearchOptions) (*edurag.SearchResponse, error) {
			switch requestKey(query, opts) {
			case "ko":
				return nil, errors.New("quota exhausted")
			case "en":
				return &edurag.SearchResponse{}, nil
			default:
				return &edurag.SearchResponse{Results: []edurag.SearchResult{{
					Title:   "Global Result",
					URL:     "https://example.org/global",
					Content: "",
				}}}, nil
			}
		},
	}

	runner := &search.Runner{Searcher: searcher}
	result, err := runner.Run(context.Background(), "seed", edurag.RunOptions{
		ResultsPerQuery: 5,
		ChunkSize:       500,
	})
	require.NoError(t, err)

	require.Len(t, result.Sections, 3)
	assert.Equal(t, "### [KO] 검색 실패\n- 오류: quota exhausted", result.Sections[0])
	assert.Equal(t, "### [EN] 검색 결과 없음\n- 사용 쿼리: seed", result.Sections[1])
	assert.Equal(t, "### [GLOBAL] 검색 결과\n- 사용 쿼리: seed\n- **Global Result**\n  - URL: https://example.org/global\n  - 요약: 요약 없음", result.Sections[2])
	assert.Empty(t, result.RelatedQueries)
	assert.Empty(t, result.RunID)
}

func TestRunner_Run_skips_duplicate_and_blocked_urls(t *testing.T) {
	t.Parallel()

	results := []edurag.SearchResult{
		{Title: "Shared", URL: "https://example.com/shared", Content: "shared"},
		{Title: "Video", URL: "https://youtube.com/watch?v=1", Content: "video"},
		{Title: "Clip", URL: "https://sub.youtube.com/clip", Content: "clip"},
		{Title: "Report", URL: "https://ok.org/page", Content: "report"},
	}
	searcher := &mock.Searcher{
		SearchFn: func(ctx context.Context, query string, opts edurag.SearchOptions) (*edurag.SearchResponse, error) {
			return &edurag.SearchResponse{Results: results}, nil
		},
	}

	var extractedURLs []string
	extractor := &mock.Extractor{
		ExtractFn: func(ctx context.Context, urls []string) (*edurag.ExtractResponse, error) {
			extractedURLs = urls
			return &edurag.ExtractResponse{}, nil
		},
	}

	runner := &search.Runner{Searcher: searcher, Extractor: extractor}
	result, err := runner.Run(context.Background(), "seed", edurag.RunOptions{
		CrawlLimit:      5,
		ResultsPerQuery: 5,
		ChunkSize:       500,
	})
	require.NoError(t, err)

	// Video hosts never become crawl candidates; the shared URL is
	// extracted once.
	assert.Equal(t, []string{"https://example.com/shared", "https://ok.org/page"}, extractedURLs)

	// Later requests see only already-known URLs.
	assert.Contains(t, result.Sections[0], "- **Video**")
	assert.Contains(t, result.Sections[1], "- 신규 정보 없음")
	assert.Contains(t, result.Sections[2], "- 신규 정보 없음")
}

func TestRunner_Run_validates_options(t *testing.T) {
	t.Parallel()

	searcher := &mock.Searcher{
		SearchFn: func(ctx context.Context, query string, opts edurag.SearchOptions) (*edurag.SearchResponse, error) {
			return &edurag.SearchResponse{}, nil
		},
	}

	runner := &search.Runner{Searcher: searcher}

	_, err := runner.Run(context.Background(), "seed", edurag.RunOptions{ResultsPerQuery: 5})
	assert.Equal(t, edurag.EINVALID, edurag.ErrorCode(err))

	_, err = runner.Run(context.Background(), "seed", edurag.RunOptions{ChunkSize: 500})
	assert.Equal(t, edurag.EINVALID, edurag.ErrorCode(err))

	_, err = (&search.Runner{}).Run(context.Background(), "seed", edurag.DefaultRunOptions())
	assert.Equal(t, edurag.EINVALID, edurag.ErrorCode(err))
}

func TestRunner_Run_suggester_failure_falls_back_to_discovery(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		calls []string
	)
	searcher := scriptedSearcher(&calls, &mu, map[string]any{
		"related_queries": []string{"Fallback Only"},
	})

	suggester := &mock.Suggester{
		SuggestFn: func(ctx context.Context, req edurag.SuggestRequest) ([]string, error) {
			return nil, errors.New("model unavailable")
		},
	}

	runner := &search.Runner{Searcher: searcher, Suggester: suggester}
	result, err := runner.Run(context.Background(), "seed", edurag.RunOptions{
		RelatedLimit:    2,
		ResultsPerQuery: 1,
		ChunkSize:       500,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Fallback Only"}, result.RelatedQueries)
}

func TestRunner_Run_zero_related_limit_skips_suggester(t *testing.T) {
	t.Parallel()

	searcher := &mock.Searcher{
		SearchFn: func(ctx context.Context, query string, opts edurag.SearchOptions) (*edurag.SearchResponse, error) {
			return &edurag.SearchResponse{}, nil
		},
	}
	suggester := &mock.Suggester{
		SuggestFn: func(ctx context.Context, req edurag.SuggestRequest) ([]string, error) {
			t.Error("suggester invoked despite zero related limit")
			return nil, nil
		},
	}

	runner := &search.Runner{Searcher: searcher, Suggester: suggester}
	result, err := runner.Run(context.Background(), "seed", edurag.RunOptions{
		ResultsPerQuery: 1,
		ChunkSize:       500,
	})
	require.NoError(t, err)

	assert.Empty(t, result.RelatedQueries)
	assert.NotContains(t, result.Markdown, "### [AI-")
}

func TestRunner_Run_reports_run_log_failures(t *testing.T) {
	t.Parallel()

	searcher := &mock.Searcher{
		SearchFn: func(ctx context.Context, query string, opts edurag.SearchOptions) (*edurag.SearchResponse, error) {
			return &edurag.SearchResponse{}, nil
		},
	}
	runLog := &mock.RunLog{
		LogSearchRunFn: func(ctx context.Context, result *edurag.SearchRunResult) (string, error) {
			return "", errors.New("database unreachable")
		},
	}

	runner := &search.Runner{Searcher: searcher, RunLog: runLog}
	_, err := runner.Run(context.Background(), "seed", edurag.RunOptions{
		ResultsPerQuery: 1,
		ChunkSize:       500,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "log search run")
}

func TestRunner_CollectAgentChunks_builds_agent_result(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		calls []string
	)
	searcher := scriptedSearcher(&calls, &mu, nil)

	suggester := &mock.Suggester{
		SuggestFn: func(ctx context.Context, req edurag.SuggestRequest) ([]string, error) {
			return []string{"Gemini Agent"}, nil
		},
	}

	extractor := &mock.Extractor{
		ExtractFn: func(ctx context.Context, urls []string) (*edurag.ExtractResponse, error) {
			return &edurag.ExtractResponse{
				Results: []edurag.ExtractedPage{{URL: urls[0], Content: "agent chunk"}},
			}, nil
		},
	}

	runner := &search.Runner{Searcher: searcher, Extractor: extractor, Suggester: suggester}
	result, err := runner.CollectAgentChunks(context.Background(), "기초 학력", edurag.RunOptions{
		RelatedLimit:    1,
		CrawlLimit:      1,
		ResultsPerQuery: 1,
		ChunkSize:       200,
	})
	require.NoError(t, err)

	assert.Equal(t, "기초 학력", result.BaseQuery)
	assert.Equal(t, []string{"Gemini Agent"}, result.RelatedQueries)
	assert.Empty(t, result.Failures)
	require.Len(t, result.Chunks, 1)
	assert.Equal(t, "agent chunk", result.Chunks[0].Content)

	_, parseErr := uuid.Parse(result.ObjectID)
	assert.NoError(t, parseErr)
	assert.True(t, strings.HasPrefix(result.ObjectKey(), "search-results/"))
}
