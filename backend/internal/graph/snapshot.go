package graph

import "fmt"

// Snapshot is the explicit node and edge enumeration of a Graph, used to
// persist and restore it.
type Snapshot struct {
	Nodes []string    `json:"nodes"`
	Edges [][2]string `json:"edges"`
}

// Snapshot reduces g to sorted node and edge lists.
func (g *Graph) Snapshot() Snapshot {
	edges := g.Edges()
	s := Snapshot{
		Nodes: g.Nodes(),
		Edges: make([][2]string, len(edges)),
	}
	for i, e := range edges {
		s.Edges[i] = [2]string{e.A, e.B}
	}
	return s
}

// FromSnapshot rebuilds a graph from s. Every edge is admitted through
// AddEdge, so an edge between words that are not one letter apart is
// rejected with ErrInvalidSnapshotEdge. Repeated edges are tolerated.
func FromSnapshot(s Snapshot) (*Graph, error) {
	g := New()
	for _, w := range s.Nodes {
		g.AddNode(w)
	}
	for _, e := range s.Edges {
		if g.AddEdge(e[0], e[1]) {
			continue
		}
		if !g.HasEdge(e[0], e[1]) {
			return nil, fmt.Errorf("%w: %s-%s", ErrInvalidSnapshotEdge, e[0], e[1])
		}
	}
	return g, nil
}
