package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNode(t *testing.T) {
	n, err := NewNode("dog")
	require.NoError(t, err)
	assert.Equal(t, "dog", n.Word())
	assert.Equal(t, "Node(dog)", n.String())

	other, _ := NewNode("dog")
	assert.True(t, n.Equal(other))
	assert.Equal(t, n.Hash(), other.Hash())
	assert.Equal(t, n, other)

	empty, err := NewNode("")
	assert.ErrorIs(t, err, ErrEmptyWord)
	assert.True(t, empty.IsZero())
	assert.False(t, n.IsZero())
}

func TestOneLetterApart(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"dog", "dot", true},
		{"dog", "dog", false},
		{"dog", "cat", false},
		{"dog", "dogs", false},
		{"", "", false},
		{"a", "b", true},
		{"niño", "nido", true},
		{"niño", "nino", true},
		{"café", "cafe", true},
		{"ab", "ba", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, OneLetterApart(tt.a, tt.b))
			assert.Equal(t, tt.want, OneLetterApart(tt.b, tt.a), "predicate must be symmetric")
		})
	}
}

func TestAddNode_Idempotent(t *testing.T) {
	g := New()
	g.AddNode("dog")
	g.AddNode("dog")
	g.AddNode("")
	assert.False(t, g.AddEdge("", ""))

	assert.Equal(t, 1, g.NodeCount())
	assert.False(t, g.HasNode(""))
	assert.True(t, g.HasNode("dog"))
	assert.Equal(t, 0, g.Degree("dog"))
}

func TestAddEdge(t *testing.T) {
	g := New()
	g.AddNode("dog")
	g.AddNode("dot")

	assert.True(t, g.AddEdge("dog", "dot"))
	assert.True(t, g.HasEdge("dog", "dot"))
	assert.True(t, g.HasEdge("dot", "dog"))

	// Repeated in either direction adds nothing.
	assert.False(t, g.AddEdge("dog", "dot"))
	assert.False(t, g.AddEdge("dot", "dog"))
	assert.Equal(t, 1, g.EdgeCount())

	assert.False(t, g.AddEdge("dog", "cat"))
	assert.False(t, g.HasEdge("dog", "cat"))
}

func TestAddEdge_RejectedStillCreatesNodes(t *testing.T) {
	g := New()

	assert.False(t, g.AddEdge("cat", "horse"))
	assert.True(t, g.HasNode("cat"))
	assert.True(t, g.HasNode("horse"))
	assert.Equal(t, 0, g.EdgeCount())

	// dot and cat differ in two positions.
	assert.False(t, g.AddEdge("dot", "cat"))
	assert.True(t, g.HasNode("dot"))
}

func TestAddEdge_NoSelfLoop(t *testing.T) {
	g := New()
	assert.False(t, g.AddEdge("dog", "dog"))
	assert.Equal(t, 1, g.NodeCount())
	assert.Empty(t, g.Neighbors("dog"))
	assert.False(t, g.HasEdge("dog", "dog"))
}

func TestNeighbors(t *testing.T) {
	g := New()
	g.AddEdge("dot", "dog")
	g.AddEdge("dot", "cot")
	g.AddEdge("dot", "dit")

	assert.Equal(t, []string{"cot", "dit", "dog"}, g.Neighbors("dot"))
	assert.Equal(t, 3, g.Degree("dot"))
	assert.Empty(t, g.Neighbors("missing"))
	assert.Equal(t, 0, g.Degree("missing"))
}

func TestDegreeSumIsTwiceEdgeCount(t *testing.T) {
	g := NewBuilder(StrategyBucketed, nil).Build(sampleWords)

	sum := 0
	for _, w := range g.Nodes() {
		sum += g.Degree(w)
		for _, p := range g.Neighbors(w) {
			assert.NotEqual(t, w, p)
			assert.True(t, g.HasEdge(p, w), "adjacency must be symmetric")
		}
	}
	assert.Equal(t, 2*g.EdgeCount(), sum)
}

func TestEdges_SortedAndUnique(t *testing.T) {
	g := New()
	g.AddEdge("dot", "dog")
	g.AddEdge("cot", "dot")

	assert.Equal(t, []Edge{{A: "cot", B: "dot"}, {A: "dog", B: "dot"}}, g.Edges())
	assert.Equal(t, "Graph with 3 nodes and 2 edges", g.String())
}

// sampleWords is a small vocabulary with several components.
var sampleWords = []string{
	"cold", "cord", "card", "ward", "warm", "word", "worm", "wore", "core", "corm",
	"dog", "dot", "cot", "cat", "bat", "bit", "bot", "but",
	"zebra", "a", "b", "c", "ab",
	"dog", "cold",
}
