// Package gemini provides a generative related-query suggester backed by
// Google Gemini.
package gemini

import (
	"context"
	"strconv"
	"strings"

	edurag "github.com/Leenamgyo/EduRAG"
	"google.golang.org/genai"
)

// DefaultModel is used when neither the request nor the suggester names a
// model.
const DefaultModel = "gemini-1.5-flash"

// DefaultPrompt is the related-query prompt template. The {seed_query},
// {context_block}, and {limit} placeholders are substituted before the
// call; custom templates use the same placeholders.
const DefaultPrompt = `
당신은 교육 및 학습 도메인에서 활용할 RAG 데이터베이스를 구축하는 정보 검색 전략가입니다.
기준 검색어를 다양한 관점에서 확장하여 수집할 가치가 높은 관련 검색어 후보를 제안하세요.
각 검색어는 실질적인 조사 주제가 되도록 12자 이상 48자 이하의 구체적인 표현으로 작성합니다.
검색어는 번호나 불릿 없이 한 줄에 하나씩만 작성하며, 한국어와 영어를 혼합해도 괜찮습니다.
기준 검색어: {seed_query}
{context_block}
최대 {limit}개의 검색어만 반환하세요.
`

// Ensure Suggester implements edurag.Suggester at compile time.
var _ edurag.Suggester = (*Suggester)(nil)

// Suggester implements edurag.Suggester using Google Gemini.
type Suggester struct {
	client *genai.Client

	// Model used when a request does not specify one.
	Model string

	// Prompt template used when a request does not specify one.
	Prompt string
}

// NewSuggester creates a Suggester with the default model and prompt.
func NewSuggester(client *genai.Client) *Suggester {
	return &Suggester{
		client: client,
		Model:  DefaultModel,
		Prompt: DefaultPrompt,
	}
}

// Suggest generates up to req.Limit related queries for the seed query.
// The model output is parsed one query per line, deduplicated
// case-insensitively, and the seed itself is excluded.
func (s *Suggester) Suggest(ctx context.Context, req edurag.SuggestRequest) ([]string, error) {
	if req.Limit <= 0 {
		return nil, nil
	}

	model := req.Model
	if model == "" {
		model = s.Model
	}
	if model == "" {
		model = DefaultModel
	}

	template := req.Prompt
	if template == "" {
		template = s.Prompt
	}
	if template == "" {
		template = DefaultPrompt
	}

	prompt := BuildPrompt(template, req.Seed, req.Limit, req.ContextSamples)

	result, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		nil,
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, edurag.Errorf(edurag.EINTERNAL, "gemini returned nil result")
	}

	return coerceQueries(result.Text(), req.Seed, req.Limit), nil
}

// BuildPrompt substitutes the seed query, limit, and an optional context
// block into the prompt template. At most 2*limit context samples are
// included.
func BuildPrompt(template, seed string, limit int, contextSamples []string) string {
	contextBlock := ""
	if len(contextSamples) > 0 {
		capped := contextSamples
		if n := 2 * limit; len(capped) > n {
			capped = capped[:n]
		}
		if formatted := strings.Join(capped, "\n"); formatted != "" {
			contextBlock = "\n참고 문맥:\n" + formatted
		}
	}

	return strings.NewReplacer(
		"{seed_query}", strings.TrimSpace(seed),
		"{limit}", strconv.Itoa(limit),
		"{context_block}", contextBlock,
	).Replace(template)
}

// coerceQueries parses model output into clean query lines, dropping
// bullet markers, duplicates, and the seed query itself.
func coerceQueries(text, seed string, limit int) []string {
	base := strings.ToLower(strings.TrimSpace(seed))
	seen := make(map[string]bool)

	var queries []string
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.Trim(raw, " -\t")
		if line == "" {
			continue
		}
		lowered := strings.ToLower(line)
		if lowered == base || seen[lowered] {
			continue
		}
		seen[lowered] = true
		queries = append(queries, line)
		if len(queries) >= limit {
			break
		}
	}
	return queries
}
