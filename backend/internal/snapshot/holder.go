package snapshot

import (
	"sync/atomic"
	"time"

	"wordgraph/backend/internal/graph"
)

// Metadata describes a published graph
type Metadata struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Strategy  graph.Strategy `json:"strategy"`
}

// Loaded is an immutable published graph with its analyzer
type Loaded struct {
	Graph       *graph.Graph
	Analyzer    *graph.Analyzer
	Meta        Metadata
	PublishedAt time.Time
}

// Holder is the serving handle for the current graph. Readers call Current
// once per request and keep using that value; Publish swaps in a new graph
// without blocking them.
type Holder struct {
	current atomic.Pointer[Loaded]
	opts    []graph.Option
}

// NewHolder creates an empty holder. opts are applied to every analyzer it
// builds.
func NewHolder(opts ...graph.Option) *Holder {
	return &Holder{opts: opts}
}

// Current returns the published graph, or false if none has been published
func (h *Holder) Current() (*Loaded, bool) {
	l := h.current.Load()
	return l, l != nil
}

// Publish indexes g and makes it the current graph. g must not be mutated
// afterwards.
func (h *Holder) Publish(g *graph.Graph, meta Metadata) *Loaded {
	l := &Loaded{
		Graph:       g,
		Analyzer:    graph.NewAnalyzer(g, h.opts...),
		Meta:        meta,
		PublishedAt: time.Now().UTC(),
	}
	h.current.Store(l)
	return l
}
