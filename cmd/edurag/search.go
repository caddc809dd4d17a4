package main

import (
	"fmt"

	edurag "github.com/Leenamgyo/EduRAG"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	if err := c.validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", edurag.ErrorMessage(err))
		return err
	}

	result, err := deps.Search(deps.Ctx, c.Query, edurag.RunOptions{
		RelatedLimit:    c.RelatedLimit,
		CrawlLimit:      c.CrawlLimit,
		ResultsPerQuery: c.ResultsPerQuery,
		ChunkSize:       c.ChunkSize,
		Model:           c.Model,
		Prompt:          c.Prompt,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", edurag.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, result.Markdown)
	if result.RunID != "" {
		fmt.Fprintf(deps.Stdout, "\n실행 로그 ID: %s\n", result.RunID)
	}

	if !c.Store {
		return nil
	}

	chunks := edurag.NewAgentChunkResult(result)
	key, err := deps.Store.StoreAgentChunks(deps.Ctx, chunks, c.ObjectName)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", edurag.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "\nMinIO 객체로 저장됨: %s\n", key)
	return nil
}

func (c *SearchCmd) validate() error {
	if c.RelatedLimit < 0 {
		return edurag.Errorf(edurag.EINVALID, "related-limit must be non-negative")
	}
	if c.CrawlLimit < 0 {
		return edurag.Errorf(edurag.EINVALID, "crawl-limit must be non-negative")
	}
	if c.ResultsPerQuery <= 0 {
		return edurag.Errorf(edurag.EINVALID, "results-per-query must be greater than zero")
	}
	if c.ChunkSize <= 0 {
		return edurag.Errorf(edurag.EINVALID, "chunk-size must be greater than zero")
	}
	return nil
}
