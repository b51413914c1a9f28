package snapshot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordgraph/backend/internal/graph"
)

func TestHolder_EmptyUntilPublished(t *testing.T) {
	h := NewHolder()
	_, ok := h.Current()
	assert.False(t, ok)

	g := graph.NewBuilder(graph.StrategyBucketed, nil).Build([]string{"dog", "dot"})
	published := h.Publish(g, Metadata{ID: "one"})

	current, ok := h.Current()
	require.True(t, ok)
	assert.Same(t, published, current)
	assert.Equal(t, []string{"dog", "dot"}, current.Analyzer.ShortestPath("dog", "dot"))
	assert.False(t, current.PublishedAt.IsZero())
}

func TestHolder_SwapDoesNotDisturbReaders(t *testing.T) {
	h := NewHolder()
	builder := graph.NewBuilder(graph.StrategyBucketed, nil)
	small := builder.Build([]string{"dog", "dot"})
	large := builder.Build([]string{"dog", "dot", "cot", "cat"})

	h.Publish(small, Metadata{ID: "small"})
	held, _ := h.Current()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l, ok := h.Current()
				if !ok {
					t.Error("graph disappeared")
					return
				}
				// every observed value is internally consistent
				assert.Equal(t, l.Graph.NodeCount(), l.Analyzer.BasicInfo().NumberOfNodes)
			}
		}()
	}
	for i := 0; i < 50; i++ {
		if i%2 == 0 {
			h.Publish(large, Metadata{ID: "large"})
		} else {
			h.Publish(small, Metadata{ID: "small"})
		}
	}
	wg.Wait()

	// a reader that kept its value still sees the original graph
	assert.Equal(t, "small", held.Meta.ID)
	assert.Equal(t, 2, held.Graph.NodeCount())
}

func TestHolder_AppliesAnalyzerOptions(t *testing.T) {
	h := NewHolder(graph.WithMaxComponentSize(2))
	g := graph.NewBuilder(graph.StrategyBucketed, nil).Build([]string{"dog", "dot", "cot"})
	l := h.Publish(g, Metadata{})

	report, err := l.Analyzer.MaximumDistanceContext(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 0, report.MaximumDistance)
	assert.Equal(t, 1, report.Skipped)
}
