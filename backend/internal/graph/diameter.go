package graph

import "context"

// DiameterReport is the result of a diameter computation.
type DiameterReport struct {
	// MaximumDistance is the largest diameter over the components examined.
	MaximumDistance int `json:"maximum_distance"`
	// Components is the number of multi-node components examined.
	Components int `json:"components"`
	// Skipped counts components left out because they exceeded the
	// analyzer's component size bound.
	Skipped int `json:"skipped"`
}

// Eccentricity returns the greatest hop distance from word to any node in
// its component, and false when word is absent.
func (a *Analyzer) Eccentricity(word string) (int, bool) {
	id, ok := a.index[word]
	if !ok {
		return 0, false
	}
	ecc := 0
	for _, d := range a.distancesFrom(id) {
		if d > ecc {
			ecc = d
		}
	}
	return ecc, true
}

// MaximumDistance returns the graph's diameter: the largest eccentricity of
// any node, taken per connected component. Single-node components count as
// 0, so a graph without edges has diameter 0.
//
// One BFS runs per node, O(V·(V+E)) overall. This is the most expensive
// query; services should prefer MaximumDistanceContext with a deadline.
func (a *Analyzer) MaximumDistance() int {
	report, _ := a.MaximumDistanceContext(context.Background())
	return report.MaximumDistance
}

// MaximumDistanceContext computes the diameter, checking ctx before each
// BFS. Components larger than the WithMaxComponentSize bound are skipped and
// counted in the report.
func (a *Analyzer) MaximumDistanceContext(ctx context.Context) (DiameterReport, error) {
	var report DiameterReport

	dist := make([]int, len(a.words))
	for i := range dist {
		dist[i] = -1
	}
	queue := make([]int, 0, len(a.words))

	for _, comp := range a.components {
		if len(comp) < 2 {
			continue
		}
		if a.maxComponentSize > 0 && len(comp) > a.maxComponentSize {
			report.Skipped++
			continue
		}
		report.Components++

		diameter := 0
		for _, src := range comp {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			if ecc := a.bfsEccentricity(src, dist, queue); ecc > diameter {
				diameter = ecc
			}
		}
		if diameter > report.MaximumDistance {
			report.MaximumDistance = diameter
		}
	}
	return report, nil
}

// bfsEccentricity reuses dist and queue across calls; dist must be all -1
// on entry and is restored before returning.
func (a *Analyzer) bfsEccentricity(src int, dist, queue []int) int {
	queue = append(queue[:0], src)
	dist[src] = 0
	ecc := 0
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		for _, v := range a.adj[u] {
			if dist[v] < 0 {
				dist[v] = dist[u] + 1
				if dist[v] > ecc {
					ecc = dist[v]
				}
				queue = append(queue, v)
			}
		}
	}
	for _, u := range queue {
		dist[u] = -1
	}
	return ecc
}
