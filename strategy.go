package pather

import (
	"math"

	"github.com/samber/lo"

	"github.com/outofforest/pather/alloc"
	"github.com/outofforest/pather/checksum"
	"github.com/outofforest/pather/types"
)

// strategy defines when the search ends and how step costs are computed. All the query variants share the same
// expansion loop and differ only by the strategy.
type strategy[S types.State] struct {
	isGoal   func(n *alloc.Node[S]) bool
	estimate func(state S) float64
	shape    func(to S, step float64) float64

	// candidates and targets are marked as goals before the search starts.
	multi       bool
	candidates  []S
	targets     []S
	reconstruct bool
}

// Solve finds the cheapest path from start to goal.
func (p *Pather[S]) Solve(start, goal S) (Result[S], error) {
	return p.solveExact(start, goal, nil, true)
}

// SolveSafe finds the path from start to goal avoiding dangerous states.
func (p *Pather[S]) SolveSafe(start, goal S, safety Safety[S]) (Result[S], error) {
	return p.solveExact(start, goal, safety.shape, true)
}

// Cost finds the cost of the cheapest path from start to goal without reconstructing the path.
func (p *Pather[S]) Cost(start, goal S) (Result[S], error) {
	return p.solveExact(start, goal, nil, false)
}

// CostSafe finds the cost of the path from start to goal avoiding dangerous states, without reconstructing the path.
func (p *Pather[S]) CostSafe(start, goal S, safety Safety[S]) (Result[S], error) {
	return p.solveExact(start, goal, safety.shape, false)
}

// SolveRadius finds the cheapest path from start to any state not farther from goal than radius.
// Path is the cheapest one with respect to the states within the radius, not with respect to the goal itself.
func (p *Pather[S]) SolveRadius(start, goal S, radius float64) (Result[S], error) {
	return p.solve(start, p.withinRadius(goal, radius, nil, true))
}

// SolveRadiusSafe finds the path from start to any state not farther from goal than radius, avoiding dangerous
// states.
func (p *Pather[S]) SolveRadiusSafe(start, goal S, radius float64, safety Safety[S]) (Result[S], error) {
	return p.solve(start, p.withinRadius(goal, radius, safety.shape, true))
}

// CostRadius finds the cost of the cheapest path from start to any state not farther from goal than radius,
// without reconstructing the path.
func (p *Pather[S]) CostRadius(start, goal S, radius float64) (Result[S], error) {
	return p.solve(start, p.withinRadius(goal, radius, nil, false))
}

// CostRadiusSafe finds the cost of the path from start to any state not farther from goal than radius, avoiding
// dangerous states, without reconstructing the path.
func (p *Pather[S]) CostRadiusSafe(start, goal S, radius float64, safety Safety[S]) (Result[S], error) {
	return p.solve(start, p.withinRadius(goal, radius, safety.shape, false))
}

// SolveAny finds the cheapest path from start to any of the candidates or targets. Result reports which one has
// been reached.
func (p *Pather[S]) SolveAny(start S, candidates, targets []S) (Result[S], error) {
	return p.solveAny(start, candidates, targets, nil, true)
}

// SolveAnySafe finds the path from start to any of the candidates or targets, avoiding dangerous states.
func (p *Pather[S]) SolveAnySafe(start S, candidates, targets []S, safety Safety[S]) (Result[S], error) {
	return p.solveAny(start, candidates, targets, safety.shape, true)
}

// CostAny finds the cost of the cheapest path from start to any of the candidates or targets without
// reconstructing the path.
func (p *Pather[S]) CostAny(start S, candidates, targets []S) (Result[S], error) {
	return p.solveAny(start, candidates, targets, nil, false)
}

// CostAnySafe finds the cost of the path from start to any of the candidates or targets, avoiding dangerous states,
// without reconstructing the path.
func (p *Pather[S]) CostAnySafe(start S, candidates, targets []S, safety Safety[S]) (Result[S], error) {
	return p.solveAny(start, candidates, targets, safety.shape, false)
}

func (p *Pather[S]) solveExact(start, goal S, shape func(S, float64) float64, reconstruct bool) (Result[S], error) {
	if start == goal {
		return p.startEqualsGoal(start, reconstruct), nil
	}
	return p.solve(start, p.exact(goal, shape, reconstruct))
}

func (p *Pather[S]) solveAny(
	start S,
	candidates, targets []S,
	shape func(S, float64) float64,
	reconstruct bool,
) (Result[S], error) {
	if len(candidates) == 0 && len(targets) == 0 {
		return Result[S]{Status: types.StatusNoSolution}, nil
	}
	return p.solve(start, p.anyOf(candidates, targets, shape, reconstruct))
}

func (p *Pather[S]) startEqualsGoal(start S, reconstruct bool) Result[S] {
	result := Result[S]{
		Status:        types.StatusStartEqualsGoal,
		Target:        start,
		ReachedTarget: true,
	}
	if reconstruct {
		result.Path = []S{start}
		p.checksum = checksum.Path(result.Path)
		result.Checksum = p.checksum
	}
	return result
}

func (p *Pather[S]) exact(goal S, shape func(S, float64) float64, reconstruct bool) strategy[S] {
	return strategy[S]{
		isGoal: func(n *alloc.Node[S]) bool {
			return n.State == goal
		},
		estimate: func(state S) float64 {
			return p.graph.EstimateCost(state, goal)
		},
		shape:       shape,
		reconstruct: reconstruct,
	}
}

// withinRadius accepts states whose distance to goal doesn't exceed radius. Reaching any such state c costs at least
// EstimateCost(state, goal) - EstimateCost(c, goal), and EstimateCost(c, goal) <= scale * radius, so the estimate
// is lowered by scale * radius to stay admissible with respect to the whole region.
func (p *Pather[S]) withinRadius(
	goal S,
	radius float64,
	shape func(S, float64) float64,
	reconstruct bool,
) strategy[S] {
	slack := math.Max(radius, 0) * p.distanceScale()
	return strategy[S]{
		isGoal: func(n *alloc.Node[S]) bool {
			return p.distance(n.State, goal) <= radius
		},
		estimate: func(state S) float64 {
			return math.Max(p.graph.EstimateCost(state, goal)-slack, 0)
		},
		shape:       shape,
		reconstruct: reconstruct,
	}
}

func (p *Pather[S]) anyOf(
	candidates, targets []S,
	shape func(S, float64) float64,
	reconstruct bool,
) strategy[S] {
	goals := lo.Uniq(append(append(make([]S, 0, len(candidates)+len(targets)), candidates...), targets...))
	return strategy[S]{
		isGoal: func(n *alloc.Node[S]) bool {
			return n.Is(types.FlagGoalCandidate)
		},
		estimate: func(state S) float64 {
			estimate := math.Inf(1)
			for _, g := range goals {
				estimate = math.Min(estimate, p.graph.EstimateCost(state, g))
			}
			return estimate
		},
		shape:       shape,
		multi:       true,
		candidates:  candidates,
		targets:     targets,
		reconstruct: reconstruct,
	}
}
