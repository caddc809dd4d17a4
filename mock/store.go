package mock

import (
	"context"

	edurag "github.com/Leenamgyo/EduRAG"
)

var _ edurag.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is a mock implementation of edurag.ChunkStore.
type ChunkStore struct {
	StoreAgentChunksFn func(ctx context.Context, result *edurag.AgentChunkResult, objectName string) (string, error)
	LoadAgentChunksFn  func(ctx context.Context, objectName string) (*edurag.AgentChunkResult, error)
}

func (s *ChunkStore) StoreAgentChunks(ctx context.Context, result *edurag.AgentChunkResult, objectName string) (string, error) {
	return s.StoreAgentChunksFn(ctx, result, objectName)
}

func (s *ChunkStore) LoadAgentChunks(ctx context.Context, objectName string) (*edurag.AgentChunkResult, error) {
	return s.LoadAgentChunksFn(ctx, objectName)
}
