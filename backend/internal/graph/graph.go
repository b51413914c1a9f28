package graph

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Graph is an undirected, simple graph over words. An edge joins two words
// of equal length that differ in exactly one position.
//
// Graph is not safe for concurrent mutation. Build it from one goroutine,
// then share it read-only.
type Graph struct {
	adj   map[Node]map[Node]struct{}
	edges int
}

// Edge is an undirected edge with its endpoints in lexicographic order.
type Edge struct {
	A string `json:"a"`
	B string `json:"b"`
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		adj: make(map[Node]map[Node]struct{}),
	}
}

// OneLetterApart reports whether a and b have the same number of runes and
// differ in exactly one rune position. It is the only rule used to admit
// edges.
func OneLetterApart(a, b string) bool {
	diff := 0
	for len(a) > 0 && len(b) > 0 {
		ra, sa := utf8.DecodeRuneInString(a)
		rb, sb := utf8.DecodeRuneInString(b)
		if ra != rb {
			diff++
			if diff > 1 {
				return false
			}
		}
		a = a[sa:]
		b = b[sb:]
	}
	return len(a) == 0 && len(b) == 0 && diff == 1
}

// AddNode makes sure word is present. Calling it again is a no-op, and an
// empty word, which NewNode rejects, is ignored.
func (g *Graph) AddNode(word string) {
	n, err := NewNode(word)
	if err != nil {
		return
	}
	if _, ok := g.adj[n]; !ok {
		g.adj[n] = make(map[Node]struct{})
	}
}

// AddEdge registers both words as nodes and then inserts an edge between
// them if they are one letter apart and not already connected. The nodes are
// created even when no edge results. It returns true only when a new edge
// was inserted; identical words never form a self-loop.
func (g *Graph) AddEdge(w1, w2 string) bool {
	g.AddNode(w1)
	g.AddNode(w2)
	if !OneLetterApart(w1, w2) {
		return false
	}

	a, b := Node{word: w1}, Node{word: w2}
	if _, ok := g.adj[a][b]; ok {
		return false
	}
	g.adj[a][b] = struct{}{}
	g.adj[b][a] = struct{}{}
	g.edges++
	return true
}

// HasNode reports whether word is a node of the graph.
func (g *Graph) HasNode(word string) bool {
	_, ok := g.adj[Node{word: word}]
	return ok
}

// HasEdge reports whether a and b are adjacent.
func (g *Graph) HasEdge(a, b string) bool {
	_, ok := g.adj[Node{word: a}][Node{word: b}]
	return ok
}

// Neighbors returns the words adjacent to word in lexicographic order. An
// absent or isolated word yields an empty slice.
func (g *Graph) Neighbors(word string) []string {
	peers := g.adj[Node{word: word}]
	out := make([]string, 0, len(peers))
	for p := range peers {
		out = append(out, p.word)
	}
	sort.Strings(out)
	return out
}

// Degree returns the number of neighbors of word, 0 when absent.
func (g *Graph) Degree(word string) int {
	return len(g.adj[Node{word: word}])
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.adj)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Nodes returns every word in lexicographic order.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.adj))
	for n := range g.adj {
		out = append(out, n.word)
	}
	sort.Strings(out)
	return out
}

// Edges returns every edge once, sorted by (A, B).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for n, peers := range g.adj {
		for p := range peers {
			if n.word < p.word {
				out = append(out, Edge{A: n.word, B: p.word})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

func (g *Graph) String() string {
	return fmt.Sprintf("Graph with %d nodes and %d edges", g.NodeCount(), g.EdgeCount())
}
