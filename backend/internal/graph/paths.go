package graph

import (
	"context"
	"errors"
	"fmt"
)

// cancelCheckInterval is how many DFS steps run between context checks.
const cancelCheckInterval = 1024

// errPathLimit stops the walk when a path is found past the limit
var errPathLimit = errors.New("path limit reached")

// ShortestPath returns a minimum-edge path from a to b, both inclusive. It
// returns nil when either word is absent or b is unreachable from a. Ties
// are broken by visiting neighbors in lexicographic order.
func (a *Analyzer) ShortestPath(from, to string) []string {
	src, ok := a.index[from]
	if !ok {
		return nil
	}
	dst, ok := a.index[to]
	if !ok {
		return nil
	}
	if src == dst {
		return []string{from}
	}
	if a.componentOf[src] != a.componentOf[dst] {
		return nil
	}

	parent := make(map[int]int)
	parent[src] = src
	queue := []int{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range a.adj[u] {
			if _, seen := parent[v]; seen {
				continue
			}
			parent[v] = u
			if v == dst {
				return a.wordsOf(tracePath(parent, src, dst))
			}
			queue = append(queue, v)
		}
	}
	return nil
}

func tracePath(parent map[int]int, src, dst int) []int {
	var rev []int
	for cur := dst; cur != src; cur = parent[cur] {
		rev = append(rev, cur)
	}
	rev = append(rev, src)
	path := make([]int, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}

// distancesFrom runs a BFS from src and returns the hop count to every node,
// -1 for unreachable ones.
func (a *Analyzer) distancesFrom(src int) []int {
	dist := make([]int, len(a.words))
	for i := range dist {
		dist[i] = -1
	}
	dist[src] = 0
	queue := []int{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range a.adj[u] {
			if dist[v] < 0 {
				dist[v] = dist[u] + 1
				queue = append(queue, v)
			}
		}
	}
	return dist
}

// Distance returns the number of edges on a shortest path between two
// words, and false when no path exists.
func (a *Analyzer) Distance(from, to string) (int, bool) {
	path := a.ShortestPath(from, to)
	if path == nil {
		return 0, false
	}
	return len(path) - 1, true
}

// AllSimplePaths enumerates every path from a to b that repeats no node and
// uses at most maxDepth edges. A negative maxDepth is rejected with
// ErrInvalidDepth. Absent words, or a == b, yield no paths.
//
// The cost is exponential in the worst case; maxDepth is the only bound.
func (a *Analyzer) AllSimplePaths(from, to string, maxDepth int) ([][]string, error) {
	paths, _, err := a.AllSimplePathsContext(context.Background(), from, to, maxDepth, 0)
	return paths, err
}

// AllSimplePathsContext is AllSimplePaths with cancellation and an optional
// cap on the number of paths returned (limit <= 0 means no cap). Paths are
// produced in DFS order over lexicographically sorted neighbors. truncated
// is true only when at least one more path exists beyond the limit.
func (a *Analyzer) AllSimplePathsContext(ctx context.Context, from, to string, maxDepth, limit int) (paths [][]string, truncated bool, err error) {
	if maxDepth < 0 {
		return nil, false, fmt.Errorf("%w: %d", ErrInvalidDepth, maxDepth)
	}
	paths = [][]string{}

	src, ok := a.index[from]
	if !ok {
		return paths, false, nil
	}
	dst, ok := a.index[to]
	if !ok || src == dst || a.componentOf[src] != a.componentOf[dst] {
		return paths, false, nil
	}

	// Hop counts to the target let the walk drop branches that cannot reach
	// it within the remaining budget.
	toTarget := a.distancesFrom(dst)

	onPath := make([]bool, len(a.words))
	path := []int{src}
	onPath[src] = true
	steps := 0

	var walk func(u int) error
	walk = func(u int) error {
		steps++
		if steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		depth := len(path) - 1
		for _, v := range a.adj[u] {
			if onPath[v] || toTarget[v] < 0 || depth+1+toTarget[v] > maxDepth {
				continue
			}
			if v == dst {
				if limit > 0 && len(paths) == limit {
					return errPathLimit
				}
				paths = append(paths, append(a.wordsOf(path), a.words[dst]))
				continue
			}
			onPath[v] = true
			path = append(path, v)
			if err := walk(v); err != nil {
				return err
			}
			path = path[:len(path)-1]
			onPath[v] = false
		}
		return nil
	}

	if err := walk(src); err != nil {
		if errors.Is(err, errPathLimit) {
			return paths, true, nil
		}
		return nil, false, err
	}
	return paths, false, nil
}
