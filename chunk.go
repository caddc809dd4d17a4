package edurag

import (
	"fmt"
	"strings"
)

// SnippetPlaceholder is used when a result carries no usable summary text.
const SnippetPlaceholder = "요약 없음"

// snippetLimit caps cleaned snippet length in runes.
const snippetLimit = 320

// SearchChunk is a chunk of crawled content produced from a provider result.
// The JSON form is the storage format consumed by downstream ingestion.
type SearchChunk struct {
	Query       string `json:"query"`
	SourceLabel string `json:"source_label"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	ChunkIndex  int    `json:"chunk_index"`
	Content     string `json:"content"`
}

// DocID returns the stable identifier for the chunk.
func (c *SearchChunk) DocID() string {
	return fmt.Sprintf("%s#chunk-%d", c.URL, c.ChunkIndex)
}

// NormalizeText collapses whitespace runs into single spaces and trims the
// result. It is the canonical form used for deduplication and chunking.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// CleanSnippet normalizes whitespace and truncates long snippets.
// Empty input yields a placeholder.
func CleanSnippet(text string) string {
	snippet := NormalizeText(text)
	if snippet == "" {
		return SnippetPlaceholder
	}
	runes := []rune(snippet)
	if len(runes) > snippetLimit {
		return string(runes[:snippetLimit-3]) + "..."
	}
	return snippet
}

// ChunkText splits text into fixed-width rune windows after whitespace
// normalization. Returns nil when the text is empty or size is not positive.
// The final chunk may be shorter than size.
func ChunkText(text string, size int) []string {
	normalized := NormalizeText(text)
	if normalized == "" || size <= 0 {
		return nil
	}

	runes := []rune(normalized)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
