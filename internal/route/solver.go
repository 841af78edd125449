package route

import (
	"fmt"
	"time"

	"order-dispatch/internal/common"
)

// SolveOpenPath orders the nodes of dist into a single path that starts at
// start and may end anywhere. Every edge back into start is zeroed before
// solving, so the tour cost equals the open-path cost and the optimizer is
// never charged for closing the tour. Construction is cheapest-arc greedy;
// improvement is guided local search over segment-relocation moves, bounded
// by the wall-clock budget.
func SolveOpenPath(dist [][]int64, start int, budget time.Duration) ([]int, error) {
	n := len(dist)
	if n == 0 {
		return nil, common.NewRoutingError("empty distance matrix", nil)
	}
	for i := range dist {
		if len(dist[i]) != n {
			return nil, common.NewRoutingError("distance matrix is not square", nil)
		}
	}
	if start < 0 || start >= n {
		return nil, common.NewRoutingError(fmt.Sprintf("start index %d out of range", start), nil)
	}
	if budget <= 0 {
		return nil, common.NewRoutingError("search budget must be positive", nil)
	}

	if n <= 2 {
		path := []int{start}
		for i := 0; i < n; i++ {
			if i != start {
				path = append(path, i)
			}
		}
		return path, nil
	}

	cost := make([][]int64, n)
	for i := range dist {
		cost[i] = make([]int64, n)
		copy(cost[i], dist[i])
		cost[i][start] = 0
	}

	deadline := time.Now().Add(budget)
	tour := cheapestArcTour(cost, start)

	best := make([]int, n)
	copy(best, tour)
	bestCost := tourCost(cost, tour)

	// Guided local search: edges that keep appearing in local optima collect
	// penalties, which inflate their augmented cost and push the search onto
	// different arcs. True cost still decides what "best" means.
	penalty := make([][]int64, n)
	for i := range penalty {
		penalty[i] = make([]int64, n)
	}
	lambda := bestCost / int64(8*n)
	if lambda == 0 {
		lambda = 1
	}
	aug := func(i, j int) int64 {
		return cost[i][j] + lambda*penalty[i][j]
	}

	for time.Now().Before(deadline) {
		moved := relocateStep(tour, aug)
		if cur := tourCost(cost, tour); cur < bestCost {
			bestCost = cur
			copy(best, tour)
		}
		if !moved {
			penalizeWorstEdges(tour, cost, penalty)
		}
	}
	return best, nil
}

// cheapestArcTour builds the initial tour greedily: from the current node,
// always take the cheapest arc to an unvisited node.
func cheapestArcTour(cost [][]int64, start int) []int {
	n := len(cost)
	visited := make([]bool, n)
	tour := make([]int, 0, n)

	cur := start
	visited[cur] = true
	tour = append(tour, cur)
	for len(tour) < n {
		next := -1
		var nextCost int64
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if next == -1 || cost[cur][j] < nextCost {
				next = j
				nextCost = cost[cur][j]
			}
		}
		visited[next] = true
		tour = append(tour, next)
		cur = next
	}
	return tour
}

// tourCost sums arc costs around the tour, including the (zeroed) closing
// edge back to the start.
func tourCost(cost [][]int64, tour []int) int64 {
	var sum int64
	for i := range tour {
		sum += cost[tour[i]][tour[(i+1)%len(tour)]]
	}
	return sum
}

// relocateStep applies the first improving segment relocation (segment
// lengths 1..3) under the augmented cost and reports whether one was found.
// Position 0 is pinned to the start node: segments never include it and are
// never inserted before it.
func relocateStep(tour []int, aug func(int, int) int64) bool {
	n := len(tour)
	for l := 1; l <= 3 && l < n-1; l++ {
		for i := 1; i+l-1 < n; i++ {
			pred := tour[i-1]
			segStart := tour[i]
			segEnd := tour[i+l-1]
			succ := tour[(i+l)%n]
			removed := aug(pred, segStart) + aug(segEnd, succ)
			for k := 0; k < n; k++ {
				if k >= i-1 && k <= i+l-1 {
					continue
				}
				after := tour[k]
				afterNext := tour[(k+1)%n]
				delta := aug(pred, succ) + aug(after, segStart) + aug(segEnd, afterNext) -
					removed - aug(after, afterNext)
				if delta < 0 {
					applyRelocate(tour, i, l, after)
					return true
				}
			}
		}
	}
	return false
}

// applyRelocate removes the l-node segment at position i and reinserts it
// immediately after the node afterNode.
func applyRelocate(tour []int, i, l int, afterNode int) {
	n := len(tour)
	seg := make([]int, l)
	copy(seg, tour[i:i+l])

	rest := make([]int, 0, n-l)
	rest = append(rest, tour[:i]...)
	rest = append(rest, tour[i+l:]...)

	pos := 0
	for idx, node := range rest {
		if node == afterNode {
			pos = idx
			break
		}
	}

	out := tour[:0]
	out = append(out, rest[:pos+1]...)
	out = append(out, seg...)
	out = append(out, rest[pos+1:]...)
}

// penalizeWorstEdges bumps the penalty of the tour edges maximizing
// cost/(1+penalty), the classic guided-local-search utility.
func penalizeWorstEdges(tour []int, cost, penalty [][]int64) {
	n := len(tour)
	var maxUtil float64 = -1
	for i := 0; i < n; i++ {
		a, b := tour[i], tour[(i+1)%n]
		util := float64(cost[a][b]) / float64(1+penalty[a][b])
		if util > maxUtil {
			maxUtil = util
		}
	}
	for i := 0; i < n; i++ {
		a, b := tour[i], tour[(i+1)%n]
		util := float64(cost[a][b]) / float64(1+penalty[a][b])
		if util == maxUtil {
			penalty[a][b]++
		}
	}
}
