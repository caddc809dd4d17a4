package sqlite

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
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

	related, err := marshalStrings(result.RelatedQueries)
	if err != nil {
		return "", fmt.Errorf("failed to encode related queries: %w", err)
	}
	failures, err := marshalStrings(result.Failures)
	if err != nil {
		return "", fmt.Errorf("failed to encode failures: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	runID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO miner_runs (id, mode, base_query, created_at, markdown, related_queries, failures, chunk_count)
		VALUES (?, 'search', ?, ?, ?, ?, ?, ?)
	`, runID, result.BaseQuery, createdAt, result.Markdown, related, failures, len(result.Chunks))
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for _, chunk := range result.Chunks {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO miner_crawled_chunks (id, run_id, query, source_label, url, title, chunk_index, content, content_length, content_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), runID, chunk.Query, chunk.SourceLabel, chunk.URL, chunk.Title,
			chunk.ChunkIndex, chunk.Content, utf8.RuneCountInString(chunk.Content), hashContent(chunk.Content))
		if err != nil {
			return "", fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return runID, nil
}

// marshalStrings encodes a string slice as JSON text, treating nil as an
// empty list.
func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// hashContent computes the xxhash of content as a hex string for cheap
// duplicate detection across runs.
func hashContent(content string) string {
	sum := xxhash.Sum64String(content)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], sum)
	return hex.EncodeToString(buf[:])
}
