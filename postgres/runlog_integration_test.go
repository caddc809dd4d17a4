//go:build integration

package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	edurag "github.com/Leenamgyo/EduRAG"
	"github.com/Leenamgyo/EduRAG/postgres"
)

func setupTestDB(t *testing.T) *postgres.DB {
	t.Helper()

	dsn := os.Getenv("EDURAG_DATABASE_URL")
	if dsn == "" {
		t.Skip("EDURAG_DATABASE_URL not set")
	}

	db := postgres.NewDB(dsn)
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunLog_Integration_LogSearchRun(t *testing.T) {
	db := setupTestDB(t)
	service := postgres.NewRunLog(db)
	ctx := context.Background()

	result := &edurag.SearchRunResult{
		BaseQuery:      "교육 과정 개편",
		Markdown:       "### [KO] 검색 결과",
		RelatedQueries: []string{"고교학점제"},
		Failures:       []string{"https://example.com/broken: timeout"},
		Chunks: []edurag.SearchChunk{
			{
				Query:       "교육 과정 개편",
				SourceLabel: "KO",
				URL:         "https://example.com/a",
				Title:       "개편 보고서",
				ChunkIndex:  1,
				Content:     "본문 내용",
			},
		},
	}

	runID, err := service.LogSearchRun(ctx, result)
	require.NoError(t, err)
	require.NotEmpty(t, runID)
	_, err = uuid.Parse(runID)
	require.NoError(t, err)

	var mode, baseQuery string
	var chunkCount int
	err = db.QueryRowContext(ctx,
		`SELECT mode, base_query, chunk_count FROM miner_runs WHERE id = $1`, runID,
	).Scan(&mode, &baseQuery, &chunkCount)
	require.NoError(t, err)
	assert.Equal(t, "search", mode)
	assert.Equal(t, "교육 과정 개편", baseQuery)
	assert.Equal(t, 1, chunkCount)

	var stored int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM miner_crawled_chunks WHERE run_id = $1`, runID,
	).Scan(&stored)
	require.NoError(t, err)
	assert.Equal(t, 1, stored)

	_, err = db.ExecContext(ctx, `DELETE FROM miner_runs WHERE id = $1`, runID)
	require.NoError(t, err)
}

func TestRunLog_Integration_NilResultRejected(t *testing.T) {
	db := setupTestDB(t)
	service := postgres.NewRunLog(db)

	_, err := service.LogSearchRun(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, edurag.EINVALID, edurag.ErrorCode(err))
}
