package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Strategy selects how candidate edges are discovered during a build.
type Strategy string

const (
	// StrategyNaive compares every unordered pair of words. O(n²·L).
	StrategyNaive Strategy = "naive"
	// StrategyBucketed groups words by wildcard keys within each length
	// bucket. O(n·L) amortized.
	StrategyBucketed Strategy = "bucketed"
)

// ParseStrategy converts a configuration value into a Strategy. An empty
// string selects StrategyBucketed.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyBucketed:
		return StrategyBucketed, nil
	case StrategyNaive:
		return StrategyNaive, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// BuildStats summarises a single build.
type BuildStats struct {
	Strategy   Strategy      `json:"strategy"`
	Words      int           `json:"words"`
	Nodes      int           `json:"nodes"`
	Edges      int           `json:"edges"`
	Candidates int           `json:"candidates"`
	Duration   time.Duration `json:"duration"`
}

// Builder constructs a Graph from a word collection.
type Builder struct {
	strategy Strategy
	logger   *zap.Logger
}

// NewBuilder creates a builder. A nil logger disables logging.
func NewBuilder(strategy Strategy, logger *zap.Logger) *Builder {
	if strategy == "" {
		strategy = StrategyBucketed
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{strategy: strategy, logger: logger}
}

// Strategy returns the strategy used by b.
func (b *Builder) Strategy() Strategy {
	return b.strategy
}

// Build constructs a graph from words. Duplicates and empty strings are
// tolerated; case handling is up to the caller.
func (b *Builder) Build(words []string) *Graph {
	g, _, _ := b.BuildContext(context.Background(), words)
	return g
}

// BuildContext is Build with cancellation and statistics. Cancellation is
// checked between length buckets (bucketed) or between outer words (naive);
// a cancelled build returns the context error and a partial graph.
func (b *Builder) BuildContext(ctx context.Context, words []string) (*Graph, BuildStats, error) {
	start := time.Now()
	stats := BuildStats{Strategy: b.strategy, Words: len(words)}

	g := New()
	unique := dedupe(words)
	for _, w := range unique {
		g.AddNode(w)
	}

	var err error
	switch b.strategy {
	case StrategyNaive:
		err = b.buildNaive(ctx, g, unique, &stats)
	case StrategyBucketed:
		err = b.buildBucketed(ctx, g, unique, &stats)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownStrategy, b.strategy)
	}

	stats.Nodes = g.NodeCount()
	stats.Edges = g.EdgeCount()
	stats.Duration = time.Since(start)

	if err != nil {
		return g, stats, err
	}

	b.logger.Debug("Graph built",
		zap.String("strategy", string(stats.Strategy)),
		zap.Int("nodes", stats.Nodes),
		zap.Int("edges", stats.Edges),
		zap.Int("candidates", stats.Candidates),
		zap.Duration("duration", stats.Duration),
	)
	return g, stats, nil
}

func (b *Builder) buildNaive(ctx context.Context, g *Graph, words []string, stats *BuildStats) error {
	for i, w1 := range words {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, w2 := range words[i+1:] {
			stats.Candidates++
			g.AddEdge(w1, w2)
		}
	}
	return nil
}

// buildBucketed masks each position of each word in turn; words sharing a
// masked key are candidates. Every candidate still goes through AddEdge.
func (b *Builder) buildBucketed(ctx context.Context, g *Graph, words []string, stats *BuildStats) error {
	byLength := make(map[int][]string)
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		byLength[n] = append(byLength[n], w)
	}

	lengths := make([]int, 0, len(byLength))
	for n := range byLength {
		lengths = append(lengths, n)
	}
	sort.Ints(lengths)

	for _, length := range lengths {
		if err := ctx.Err(); err != nil {
			return err
		}
		bucket := byLength[length]
		if len(bucket) < 2 {
			continue
		}

		runes := make([][]rune, len(bucket))
		for i, w := range bucket {
			runes[i] = []rune(w)
		}

		for pos := 0; pos < length; pos++ {
			groups := make(map[string][]int)
			for i, r := range runes {
				key := wildcardKey(r, pos)
				groups[key] = append(groups[key], i)
			}
			for _, members := range groups {
				for i := 0; i < len(members); i++ {
					for j := i + 1; j < len(members); j++ {
						stats.Candidates++
						g.AddEdge(bucket[members[i]], bucket[members[j]])
					}
				}
			}
		}

		b.logger.Debug("Length bucket processed",
			zap.Int("length", length),
			zap.Int("words", len(bucket)),
		)
	}
	return nil
}

// wildcardKey renders r with position pos replaced by a NUL marker.
func wildcardKey(r []rune, pos int) string {
	var sb strings.Builder
	sb.Grow(len(r) + 1)
	for i, c := range r {
		if i == pos {
			sb.WriteByte(0)
			continue
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

// dedupe drops empty strings and repeats while keeping first-seen order.
func dedupe(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
