package test

import (
	"iter"
	"math"

	"github.com/pkg/errors"

	"github.com/outofforest/pather/grid"
	"github.com/outofforest/pather/types"
)

// Successors is the part of the graph used by helpers.
type Successors[S types.State] interface {
	Successors(state S) iter.Seq2[S, float64]
}

// Grid builds grid from rows of text. '#' is the blocked cell, '.' is the cell of cost 1 and digits '1'-'9' set the
// cost of the cell. First row is y = 0.
func Grid(diagonal bool, rows ...string) (*grid.Grid, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows")
	}

	g, err := grid.New(grid.Config{
		Width:    len(rows[0]),
		Height:   len(rows),
		Diagonal: diagonal,
	})
	if err != nil {
		return nil, err
	}

	for y, row := range rows {
		if len(row) != g.Width() {
			return nil, errors.Errorf("row %d has invalid length %d", y, len(row))
		}
		for x, ch := range row {
			c := grid.Cell{X: x, Y: y}
			switch {
			case ch == '#':
				err = g.SetPassable(c, false)
			case ch == '.':
			case ch >= '1' && ch <= '9':
				err = g.SetCost(c, float64(ch-'0'))
			default:
				err = errors.Errorf("invalid character %q at %v", ch, c)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

// ShortestCosts computes the cost of the cheapest path from start to every reachable state by relaxing all the edges
// until nothing changes. It is slow but it doesn't depend on any heuristic, so it is used as the reference.
func ShortestCosts[S types.State](
	graph Successors[S],
	start S,
	stepCost func(from, to S, step float64) float64,
) map[S]float64 {
	costs := map[S]float64{start: 0}
	for changed := true; changed; {
		changed = false
		for state, cost := range costs {
			for next, step := range graph.Successors(state) {
				if stepCost != nil {
					step = stepCost(state, next, step)
				}
				if c, exists := costs[next]; !exists || cost+step < c-1e-9 {
					costs[next] = cost + step
					changed = true
				}
			}
		}
	}
	return costs
}

// ShortestCost returns the cost of the cheapest path from start to goal.
func ShortestCost[S types.State](graph Successors[S], start, goal S) (float64, bool) {
	cost, exists := ShortestCosts(graph, start, nil)[goal]
	return cost, exists
}

// PathCost sums the costs of moves along the path. It fails if two consecutive states are not connected.
func PathCost[S types.State](graph Successors[S], path []S) (float64, error) {
	var cost float64
	for i := 1; i < len(path); i++ {
		step := math.Inf(1)
		for next, c := range graph.Successors(path[i-1]) {
			if next == path[i] {
				step = math.Min(step, c)
			}
		}
		if math.IsInf(step, 1) {
			return 0, errors.Errorf("states %v and %v are not connected", path[i-1], path[i])
		}
		cost += step
	}
	return cost, nil
}
