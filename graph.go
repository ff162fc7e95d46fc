package pather

import (
	"iter"

	"github.com/outofforest/pather/types"
)

// Graph is the space searched by the pather.
// Graph must not be modified while search is running.
type Graph[S types.State] interface {
	// Successors returns states reachable from the state in one step together with non-negative costs of those steps.
	Successors(state S) iter.Seq2[S, float64]

	// EstimateCost returns the estimated cost of moving between states. The estimate must never exceed the real cost
	// and must satisfy the triangle inequality with respect to the step costs, otherwise found paths are not
	// guaranteed to be the cheapest ones. It is not verified.
	EstimateCost(from, to S) float64
}

// Distancer might be implemented by the graph to define how distance is measured by radius queries.
// EstimateCost is used if graph doesn't implement it.
type Distancer[S types.State] interface {
	Distance(from, to S) float64

	// DistanceScale returns the factor k satisfying EstimateCost(a, b) <= k * Distance(a, b) for all the states.
	DistanceScale() float64
}

// Safety biases the search away from dangerous states. Cost of each step is multiplied by
// 1 + Weight * Danger(destination). Paths found this way are risk-biased, they are not guaranteed to be the
// shortest ones.
type Safety[S types.State] struct {
	Danger func(state S) float64
	Weight float64
}

func (s *Safety[S]) shape(to S, step float64) float64 {
	if s.Danger == nil {
		return step
	}
	if danger := s.Danger(to) * s.Weight; danger > 0 {
		return step * (1 + danger)
	}
	return step
}

// Query describes the search executed by Run.
type Query[S types.State] struct {
	Start S
	Goal  S

	// Candidates and Targets turn on the multi-target search, Goal is ignored then. Targets are the true goals,
	// candidates are intermediate waypoints also accepted as the end of the path.
	Candidates []S
	Targets    []S

	// Radius accepts every state not farther from the goal than the radius.
	Radius float64

	Safety *Safety[S]

	// CostOnly skips path reconstruction. It is honoured by exact, radius and multi-target queries alike.
	CostOnly bool
}

// Result is the outcome of a query.
type Result[S types.State] struct {
	Status types.Status
	Path   []S
	Cost   float64

	// Target is the state where the path ends. ReachedTarget tells if it is one of the true targets of
	// the multi-target search.
	Target        S
	ReachedTarget bool

	Expanded uint64
	Checksum uint64
}
