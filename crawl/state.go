// Package crawl provides queue-based crawl orchestration.
// It coordinates scheduling, deduplication, retries, and frontier
// expansion of search-driven crawl jobs.
package crawl

import (
	"sync"

	edurag "github.com/Leenamgyo/EduRAG"
)

// State is the shared deduplication state coordinating the scheduler and
// workers. It is safe for concurrent use by multiple goroutines.
type State struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewState creates empty crawl state.
func NewState() *State {
	return &State{seen: make(map[string]struct{})}
}

// MarkSeen records the query and reports whether it was new. Queries are
// whitespace-normalized before comparison; blank queries are never new.
// The check and insert happen atomically so that concurrent workers cannot
// both claim the same query.
func (s *State) MarkSeen(query string) bool {
	normalized := edurag.NormalizeText(query)
	if normalized == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[normalized]; ok {
		return false
	}
	s.seen[normalized] = struct{}{}
	return true
}
