package edurag

import "context"

// ChunkStore persists agent chunk results in an object store.
type ChunkStore interface {
	// StoreAgentChunks uploads the result as a JSON object and returns the
	// object key used. An empty objectName falls back to result.ObjectKey().
	StoreAgentChunks(ctx context.Context, result *AgentChunkResult, objectName string) (string, error)

	// LoadAgentChunks downloads a previously stored result.
	// Returns ENOTFOUND if the object does not exist.
	LoadAgentChunks(ctx context.Context, objectName string) (*AgentChunkResult, error)
}
