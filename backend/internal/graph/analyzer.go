package graph

import (
	"sort"
)

// BasicInfo summarises the size and connectivity of a graph.
type BasicInfo struct {
	NumberOfNodes               int     `json:"number_of_nodes"`
	NumberOfEdges               int     `json:"number_of_edges"`
	AverageDegree               float64 `json:"average_degree"`
	NumberOfConnectedComponents int     `json:"number_of_connected_components"`
	LargestComponentSize        int     `json:"largest_component_size"`
}

// Analyzer answers structural queries over a finished Graph.
//
// NewAnalyzer indexes the graph once: words are numbered in lexicographic
// order and adjacency lists are kept sorted, so every traversal visits
// neighbors in a fixed order and results are reproducible. The Analyzer is
// immutable afterwards and safe for concurrent use. The Graph must not be
// modified while an Analyzer built from it is in use.
type Analyzer struct {
	g     *Graph
	words []string
	index map[string]int
	adj   [][]int

	// components are sorted internally; the outer slice is ordered by size
	// descending, then by first word.
	components  [][]int
	componentOf []int

	maxComponentSize int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMaxComponentSize makes diameter computation skip components with more
// than n nodes. Zero or negative means no bound.
func WithMaxComponentSize(n int) Option {
	return func(a *Analyzer) {
		a.maxComponentSize = n
	}
}

// NewAnalyzer indexes g for querying.
func NewAnalyzer(g *Graph, opts ...Option) *Analyzer {
	words := g.Nodes()
	index := make(map[string]int, len(words))
	for i, w := range words {
		index[w] = i
	}

	adj := make([][]int, len(words))
	for i, w := range words {
		peers := g.adj[Node{word: w}]
		ids := make([]int, 0, len(peers))
		for p := range peers {
			ids = append(ids, index[p.word])
		}
		sort.Ints(ids)
		adj[i] = ids
	}

	a := &Analyzer{
		g:     g,
		words: words,
		index: index,
		adj:   adj,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.labelComponents()
	return a
}

// Graph returns the graph being analysed.
func (a *Analyzer) Graph() *Graph {
	return a.g
}

func (a *Analyzer) labelComponents() {
	n := len(a.words)
	uf := newUnionFind(n)
	for u, peers := range a.adj {
		for _, v := range peers {
			if u < v {
				uf.union(u, v)
			}
		}
	}

	byRoot := make(map[int]int)
	a.componentOf = make([]int, n)
	for u := 0; u < n; u++ {
		root := uf.find(u)
		idx, ok := byRoot[root]
		if !ok {
			idx = len(a.components)
			byRoot[root] = idx
			a.components = append(a.components, nil)
		}
		// u ascends, so each component stays sorted.
		a.components[idx] = append(a.components[idx], u)
	}

	sort.SliceStable(a.components, func(i, j int) bool {
		ci, cj := a.components[i], a.components[j]
		if len(ci) != len(cj) {
			return len(ci) > len(cj)
		}
		return ci[0] < cj[0]
	})
	for idx, comp := range a.components {
		for _, u := range comp {
			a.componentOf[u] = idx
		}
	}
}

func (a *Analyzer) wordsOf(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = a.words[id]
	}
	return out
}

// Clusters partitions the nodes into connected components. Isolated nodes
// form singleton components. Each component is sorted; components are
// ordered by size descending, then by their first word.
func (a *Analyzer) Clusters() [][]string {
	out := make([][]string, len(a.components))
	for i, comp := range a.components {
		out[i] = a.wordsOf(comp)
	}
	return out
}

// ClusterOf returns the component containing word, or nil when absent.
func (a *Analyzer) ClusterOf(word string) []string {
	id, ok := a.index[word]
	if !ok {
		return nil
	}
	return a.wordsOf(a.components[a.componentOf[id]])
}

// HighConnectivityNodes returns nodes whose degree is at least threshold.
func (a *Analyzer) HighConnectivityNodes(threshold int) []string {
	return a.filterByDegree(func(d int) bool { return d >= threshold })
}

// NodesByDegree returns nodes whose degree is exactly degree.
func (a *Analyzer) NodesByDegree(degree int) []string {
	return a.filterByDegree(func(d int) bool { return d == degree })
}

// IsolatedNodes returns nodes without any edge.
func (a *Analyzer) IsolatedNodes() []string {
	return a.NodesByDegree(0)
}

func (a *Analyzer) filterByDegree(keep func(int) bool) []string {
	out := []string{}
	for id, peers := range a.adj {
		if keep(len(peers)) {
			out = append(out, a.words[id])
		}
	}
	return out
}

// BasicInfo reports node and edge counts, average degree, and component
// statistics.
func (a *Analyzer) BasicInfo() BasicInfo {
	info := BasicInfo{
		NumberOfNodes:               len(a.words),
		NumberOfEdges:               a.g.EdgeCount(),
		NumberOfConnectedComponents: len(a.components),
	}
	if info.NumberOfNodes > 0 {
		info.AverageDegree = 2 * float64(info.NumberOfEdges) / float64(info.NumberOfNodes)
	}
	if len(a.components) > 0 {
		info.LargestComponentSize = len(a.components[0])
	}
	return info
}

// DegreeDistribution maps each degree held by at least one node to the
// number of nodes holding it.
func (a *Analyzer) DegreeDistribution() map[int]int {
	dist := make(map[int]int)
	for _, peers := range a.adj {
		dist[len(peers)]++
	}
	return dist
}
