package postgres

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	edurag "github.com/Leenamgyo/EduRAG"
)

// Ensure service implements interface.
var _ edurag.RunLog = (*RunLog)(nil)

// RunLog persists search runs and their crawled chunks.
type RunLog struct {
	db *DB
}

// NewRunLog creates a new RunLog service backed by db.
func NewRunLog(db *DB) *RunLog {
	return &RunLog{db: db}
}

// LogSearchRun stores the run and all of its chunks in a single
// transaction and returns the generated run ID.
func (r *RunLog) LogSearchRun(ctx context.Context, result *edurag.SearchRunResult) (string, error) {
	if result == nil {
		return "", edurag.Errorf(edurag.EINVALID, "Search run result is required.")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	runID := uuid.New().String()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO miner_runs (id, mode, base_query, markdown, related_queries, failures, chunk_count)
		VALUES ($1, 'search', $2, $3, $4, $5, $6)
	`, runID, result.BaseQuery, result.Markdown,
		notNilStrings(result.RelatedQueries), notNilStrings(result.Failures), len(result.Chunks))
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for _, chunk := range result.Chunks {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO miner_crawled_chunks (id, run_id, query, source_label, url, title, chunk_index, content, content_length)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, uuid.New().String(), runID, chunk.Query, chunk.SourceLabel, chunk.URL, chunk.Title,
			chunk.ChunkIndex, chunk.Content, utf8.RuneCountInString(chunk.Content))
		if err != nil {
			return "", fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return runID, nil
}

// notNilStrings keeps array columns non-null, treating nil as empty.
func notNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
