package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AppendAndHistory(t *testing.T) {
	store := NewStore(10)

	store.Append("s1", "what is algebra", "a branch of mathematics")
	store.Append("s1", "and geometry", "the study of shapes")

	history := store.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, "what is algebra", history[0].Question)
	assert.Equal(t, "the study of shapes", history[1].Answer)
}

func TestStore_CapEvictsOldestFirst(t *testing.T) {
	store := NewStore(10)

	for i := 1; i <= 12; i++ {
		store.Append("s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	history := store.History("s1")
	require.Len(t, history, 10)
	assert.Equal(t, "q3", history[0].Question)
	assert.Equal(t, "q12", history[9].Question)
}

func TestStore_ClearRemovesEntry(t *testing.T) {
	store := NewStore(10)
	store.Append("s1", "q", "a")
	assert.Equal(t, 1, store.Count())

	store.Clear("s1")
	assert.Equal(t, 0, store.Count())
	assert.Empty(t, store.History("s1"))
}

func TestStore_SessionsAreIndependent(t *testing.T) {
	store := NewStore(10)
	store.Append("s1", "q1", "a1")
	store.Append("s2", "q2", "a2")

	assert.Len(t, store.History("s1"), 1)
	assert.Len(t, store.History("s2"), 1)
	assert.Equal(t, "q2", store.History("s2")[0].Question)
}

func TestStore_ConcurrentAppendsNeverDropTurns(t *testing.T) {
	store := NewStore(10)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			store.Append("shared", fmt.Sprintf("q%d", n), "a")
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.History("shared"), 8)
}

func TestStore_HistoryReturnsCopy(t *testing.T) {
	store := NewStore(10)
	store.Append("s1", "q", "a")

	history := store.History("s1")
	history[0].Question = "mutated"

	assert.Equal(t, "q", store.History("s1")[0].Question)
}
