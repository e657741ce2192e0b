package suggest

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var churnQueries = []string{
	"w", "wo", "wor", "worl", "world",
	"p", "pr", "pro", "prog", "program",
	"x", "word", "wrld", "prigram",
}

// churn inserts n generated texts, queries them, then deletes every one.
func churn(t *testing.T, idx *Index[string], n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		text := fmt.Sprintf("word%04d", i)
		require.True(t, idx.Insert(Record[string]{Text: text, Value: text, Weight: i % 17}))
	}
	for _, q := range churnQueries {
		assert.LessOrEqual(t, len(idx.Suggest(q)), idx.Options().MaxSuggestion)
	}
	for i := 0; i < n; i++ {
		require.True(t, idx.Delete(fmt.Sprintf("word%04d", i)))
	}
}

func TestChurnLeavesNoNodes(t *testing.T) {
	iterations := []int{10, 100, 1000}

	for _, n := range iterations {
		t.Run(fmt.Sprintf("entries_%d", n), func(t *testing.T) {
			idx := New[string](Options{})
			churn(t, idx, n)

			assert.Equal(t, 0, idx.NodeCount())
			assert.Equal(t, 0, idx.Len())
			assert.Empty(t, idx.Suggest(""))
			assert.Empty(t, idx.root.children)
		})
	}
}

func TestMemoryStabilityLongRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long-running memory stability test in short mode")
	}

	idx := New[string](Options{})
	churn(t, idx, 500)

	var baseline runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)

	cycles := 20
	for c := 0; c < cycles; c++ {
		churn(t, idx, 500)
	}

	var final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&final)

	memDelta := int64(final.HeapAlloc) - int64(baseline.HeapAlloc)
	t.Logf("cycles=%d mem_delta=%d bytes nodes=%d", cycles, memDelta, idx.NodeCount())

	assert.Equal(t, 0, idx.NodeCount())
	assert.Less(t, memDelta, int64(16<<20), "retained heap grew across churn cycles")
}
