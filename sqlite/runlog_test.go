package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	edurag "github.com/Leenamgyo/EduRAG"
	"github.com/Leenamgyo/EduRAG/sqlite"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunLog_LogSearchRun(t *testing.T) {
	t.Parallel()

	t.Run("stores run and chunks in one transaction", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		service := sqlite.NewRunLog(db)
		ctx := context.Background()

		result := &edurag.SearchRunResult{
			BaseQuery:      "기초 학력 격차",
			Markdown:       "### [KO] 검색 결과\n- **제목**",
			RelatedQueries: []string{"교육 격차 해소", "학습 부진 지원"},
			Failures:       []string{"https://example.com/broken: timeout"},
			Chunks: []edurag.SearchChunk{
				{
					Query:       "기초 학력 격차",
					SourceLabel: "KO",
					URL:         "https://example.com/a",
					Title:       "기초 학력 보고서",
					ChunkIndex:  1,
					Content:     "한국어 내용입니다",
				},
				{
					Query:       "기초 학력 격차",
					SourceLabel: "KO",
					URL:         "https://example.com/a",
					Title:       "기초 학력 보고서",
					ChunkIndex:  2,
					Content:     "second chunk",
				},
			},
		}

		runID, err := service.LogSearchRun(ctx, result)
		require.NoError(t, err)
		_, err = uuid.Parse(runID)
		require.NoError(t, err)

		var (
			mode       string
			baseQuery  string
			createdAt  string
			markdown   string
			related    string
			failures   string
			chunkCount int
		)
		err = db.QueryRowContext(ctx, `
			SELECT mode, base_query, created_at, markdown, related_queries, failures, chunk_count
			FROM miner_runs WHERE id = ?
		`, runID).Scan(&mode, &baseQuery, &createdAt, &markdown, &related, &failures, &chunkCount)
		require.NoError(t, err)

		assert.Equal(t, "search", mode)
		assert.Equal(t, "기초 학력 격차", baseQuery)
		assert.Equal(t, result.Markdown, markdown)
		assert.Equal(t, `["교육 격차 해소","학습 부진 지원"]`, related)
		assert.Equal(t, `["https://example.com/broken: timeout"]`, failures)
		assert.Equal(t, 2, chunkCount)
		_, err = time.Parse(time.RFC3339, createdAt)
		assert.NoError(t, err)

		var stored int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM miner_crawled_chunks WHERE run_id = ?", runID).Scan(&stored)
		require.NoError(t, err)
		assert.Equal(t, 2, stored)

		var (
			chunkID       string
			query         string
			label         string
			url           string
			title         string
			content       string
			contentLength int
			contentHash   string
		)
		err = db.QueryRowContext(ctx, `
			SELECT id, query, source_label, url, title, content, content_length, content_hash
			FROM miner_crawled_chunks WHERE run_id = ? AND chunk_index = 1
		`, runID).Scan(&chunkID, &query, &label, &url, &title, &content, &contentLength, &contentHash)
		require.NoError(t, err)

		_, err = uuid.Parse(chunkID)
		assert.NoError(t, err)
		assert.Equal(t, "기초 학력 격차", query)
		assert.Equal(t, "KO", label)
		assert.Equal(t, "https://example.com/a", url)
		assert.Equal(t, "기초 학력 보고서", title)
		assert.Equal(t, "한국어 내용입니다", content)
		// Length counts code points, not bytes.
		assert.Equal(t, 9, contentLength)
		assert.Len(t, contentHash, 16)
	})

	t.Run("encodes empty slices as JSON arrays", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		service := sqlite.NewRunLog(db)
		ctx := context.Background()

		runID, err := service.LogSearchRun(ctx, &edurag.SearchRunResult{BaseQuery: "empty run"})
		require.NoError(t, err)

		var related, failures string
		var chunkCount int
		err = db.QueryRowContext(ctx, `
			SELECT related_queries, failures, chunk_count FROM miner_runs WHERE id = ?
		`, runID).Scan(&related, &failures, &chunkCount)
		require.NoError(t, err)

		assert.Equal(t, "[]", related)
		assert.Equal(t, "[]", failures)
		assert.Equal(t, 0, chunkCount)
	})

	t.Run("requires a result", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		service := sqlite.NewRunLog(db)

		_, err := service.LogSearchRun(context.Background(), nil)
		require.Error(t, err)
		assert.Equal(t, edurag.EINVALID, edurag.ErrorCode(err))
	})

	t.Run("deletes chunks with their run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		service := sqlite.NewRunLog(db)
		ctx := context.Background()

		runID, err := service.LogSearchRun(ctx, &edurag.SearchRunResult{
			BaseQuery: "cascade",
			Chunks:    []edurag.SearchChunk{{Query: "cascade", ChunkIndex: 1, Content: "body"}},
		})
		require.NoError(t, err)

		_, err = db.ExecContext(ctx, "DELETE FROM miner_runs WHERE id = ?", runID)
		require.NoError(t, err)

		var remaining int
		err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM miner_crawled_chunks WHERE run_id = ?", runID).Scan(&remaining)
		require.NoError(t, err)
		assert.Equal(t, 0, remaining)
	})
}
