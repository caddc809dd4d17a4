package crawl_test

import (
	"sync"
	"testing"

	"github.com/Leenamgyo/EduRAG/crawl"
	"github.com/stretchr/testify/assert"
)

func TestState_MarkSeen_rejects_duplicates(t *testing.T) {
	t.Parallel()

	state := crawl.NewState()

	assert.True(t, state.MarkSeen("기초 학력 격차"))
	assert.False(t, state.MarkSeen("기초 학력 격차"))
}

func TestState_MarkSeen_normalizes_whitespace(t *testing.T) {
	t.Parallel()

	state := crawl.NewState()

	assert.True(t, state.MarkSeen("  기초   학력 "))
	// Same query modulo whitespace must be treated as already seen.
	assert.False(t, state.MarkSeen("기초 학력"))
	assert.False(t, state.MarkSeen("\t기초 학력\n"))
}

func TestState_MarkSeen_rejects_blank_queries(t *testing.T) {
	t.Parallel()

	state := crawl.NewState()

	assert.False(t, state.MarkSeen(""))
	assert.False(t, state.MarkSeen("   \n\t "))
}

func TestState_MarkSeen_is_safe_for_concurrent_use(t *testing.T) {
	t.Parallel()

	state := crawl.NewState()

	const goroutines = 50
	wins := make(chan bool, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- state.MarkSeen("contested query")
		}()
	}
	wg.Wait()
	close(wins)

	// Exactly one goroutine may claim the query.
	claimed := 0
	for win := range wins {
		if win {
			claimed++
		}
	}
	assert.Equal(t, 1, claimed)
}
