package edurag

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// SearchRunResult is the aggregated output of a full search run.
// The JSON form mirrors the stored chunk artifacts.
type SearchRunResult struct {
	BaseQuery      string        `json:"base_query"`
	Sections       []string      `json:"sections"`
	Markdown       string        `json:"markdown"`
	RelatedQueries []string      `json:"related_queries"`
	Chunks         []SearchChunk `json:"chunks"`
	Failures       []string      `json:"failures"`

	// Identifier of the persisted run log row. Empty when run logging is
	// disabled or the run has not been logged yet.
	RunID string `json:"run_id,omitempty"`
}

// AgentChunkResult is the structured output for agent-oriented crawling,
// stored as a JSON object for downstream pipelines.
type AgentChunkResult struct {
	BaseQuery      string        `json:"base_query"`
	RelatedQueries []string      `json:"related_queries"`
	Chunks         []SearchChunk `json:"chunks"`
	Failures       []string      `json:"failures"`
	ObjectID       string        `json:"object_id"`
}

// NewAgentChunkResult converts a run result into its agent-oriented form,
// reusing the run log ID as the object ID when available.
func NewAgentChunkResult(result *SearchRunResult) *AgentChunkResult {
	objectID := result.RunID
	if objectID == "" {
		objectID = uuid.New().String()
	}
	return &AgentChunkResult{
		BaseQuery:      result.BaseQuery,
		RelatedQueries: result.RelatedQueries,
		Chunks:         result.Chunks,
		Failures:       result.Failures,
		ObjectID:       objectID,
	}
}

var unsafeObjectChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// ObjectKey returns the default storage key for the result, built from a
// sanitized base query and the object ID.
func (r *AgentChunkResult) ObjectKey() string {
	safe := strings.Trim(unsafeObjectChars.ReplaceAllString(r.BaseQuery, "-"), "-")
	if safe == "" {
		safe = "search"
	}
	return fmt.Sprintf("search-results/%s-%s.json", safe, r.ObjectID)
}
