//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	edurag "github.com/Leenamgyo/EduRAG"
	"github.com/Leenamgyo/EduRAG/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestSuggester_Integration_GeneratesRelatedQueries(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	suggester := gemini.NewSuggester(client)

	queries, err := suggester.Suggest(ctx, edurag.SuggestRequest{
		Seed:  "기초 학력 격차",
		Limit: 3,
		ContextSamples: []string{
			"기초학력 진단평가 결과 :: 최근 3년간 지역별 기초학력 미달 비율이 벌어지고 있다",
		},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, queries)
	assert.LessOrEqual(t, len(queries), 3)
}
