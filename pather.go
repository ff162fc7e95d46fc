package pather

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/outofforest/pather/alloc"
	"github.com/outofforest/pather/checksum"
	"github.com/outofforest/pather/queue"
	"github.com/outofforest/pather/types"
)

// Config stores configuration of the pather.
type Config struct {
	Pool alloc.Config
}

// DefaultConfig is the default configuration of the pather.
var DefaultConfig = Config{
	Pool: alloc.DefaultConfig,
}

// Stats contains statistics of the pather.
type Stats struct {
	Queries  uint64
	Solved   uint64
	Expanded uint64
	Pool     alloc.Stats
}

// New creates new pather searching the graph.
func New[S types.State](graph Graph[S], config Config) *Pather[S] {
	pool := alloc.NewPool[S](config.Pool)
	p := &Pather[S]{
		graph:    graph,
		pool:     pool,
		frontier: queue.New(pool),
	}
	if d, ok := graph.(Distancer[S]); ok {
		p.distance = d.Distance
		p.distanceScale = d.DistanceScale
	} else {
		p.distance = graph.EstimateCost
		p.distanceScale = func() float64 {
			return 1
		}
	}
	return p
}

// Pather finds the cheapest paths in the graph using A* algorithm.
// Search nodes are reused between queries, each query starts new epoch of the node pool. Once epochs are exhausted
// every query fails with types.StatusEpochExhausted until Reset is called.
// Pather is not safe for concurrent use.
type Pather[S types.State] struct {
	graph         Graph[S]
	distance      func(from, to S) float64
	distanceScale func() float64
	pool          *alloc.Pool[S]
	frontier      *queue.Queue[S]

	checksum uint64
	queries  uint64
	solved   uint64
	expanded uint64
}

// Reset reallocates the node pool and zeroes the epoch counter.
func (p *Pather[S]) Reset() {
	p.frontier.Clear()
	p.pool.Reset()
}

// Checksum returns the checksum of the last reconstructed path.
func (p *Pather[S]) Checksum() uint64 {
	return p.checksum
}

// Epoch returns the epoch of the last query.
func (p *Pather[S]) Epoch() types.Epoch {
	return p.pool.Epoch()
}

// EpochsLeft returns the number of queries which might be executed before Reset is required.
func (p *Pather[S]) EpochsLeft() uint64 {
	return p.pool.EpochsLeft()
}

// Stats returns statistics of the pather.
func (p *Pather[S]) Stats() Stats {
	return Stats{
		Queries:  p.queries,
		Solved:   p.solved,
		Expanded: p.expanded,
		Pool:     p.pool.Stats(),
	}
}

// Run executes the query. Safety and CostOnly apply to every kind of query.
func (p *Pather[S]) Run(q Query[S]) (Result[S], error) {
	var shape func(S, float64) float64
	if q.Safety != nil {
		shape = q.Safety.shape
	}
	reconstruct := !q.CostOnly

	switch {
	case len(q.Candidates) > 0 || len(q.Targets) > 0:
		return p.solveAny(q.Start, q.Candidates, q.Targets, shape, reconstruct)
	case q.Radius > 0:
		return p.solve(q.Start, p.withinRadius(q.Goal, q.Radius, shape, reconstruct))
	default:
		return p.solveExact(q.Start, q.Goal, shape, reconstruct)
	}
}

func (p *Pather[S]) solve(start S, s strategy[S]) (Result[S], error) {
	p.queries++

	if err := p.pool.NextEpoch(); err != nil {
		return failure[S](err)
	}
	p.frontier.Clear()

	for _, state := range s.candidates {
		if err := p.markGoal(state, types.FlagGoalCandidate); err != nil {
			return failure[S](err)
		}
	}
	for _, state := range s.targets {
		if err := p.markGoal(state, types.FlagGoalCandidate|types.FlagTarget); err != nil {
			return failure[S](err)
		}
	}

	startIndex, err := p.pool.GetOrCreate(start)
	if err != nil {
		return failure[S](err)
	}
	startNode := p.pool.Node(startIndex)
	startNode.CostFromStart = 0
	startNode.TotalCost = s.estimate(start)
	p.frontier.Push(startIndex)

	var expanded uint64
	defer func() {
		p.expanded += expanded
	}()

	for p.frontier.Len() > 0 {
		index := p.frontier.PopMin()
		n := p.pool.Node(index)
		if s.isGoal(n) {
			return p.goalReached(index, s, expanded), nil
		}

		n.Set(types.FlagClosed)
		expanded++

		for next, step := range p.graph.Successors(n.State) {
			if s.shape != nil {
				step = s.shape(next, step)
			}

			nextIndex, err := p.pool.GetOrCreate(next)
			if err != nil {
				return failure[S](err)
			}
			m := p.pool.Node(nextIndex)
			if m.Is(types.FlagClosed) {
				continue
			}

			cost := n.CostFromStart + step
			if cost >= m.CostFromStart {
				continue
			}

			m.Parent = index
			m.CostFromStart = cost
			totalCost := cost + s.estimate(next)
			if m.Is(types.FlagInFrontier) {
				p.frontier.DecreaseKey(nextIndex, totalCost)
				continue
			}
			m.TotalCost = totalCost
			p.frontier.Push(nextIndex)
		}
	}

	return Result[S]{
		Status:   types.StatusNoSolution,
		Expanded: expanded,
	}, nil
}

func (p *Pather[S]) markGoal(state S, flags types.Flags) error {
	index, err := p.pool.GetOrCreate(state)
	if err != nil {
		return err
	}
	p.pool.Node(index).Set(flags)
	return nil
}

func (p *Pather[S]) goalReached(index types.NodeIndex, s strategy[S], expanded uint64) Result[S] {
	p.solved++

	n := p.pool.Node(index)
	result := Result[S]{
		Status:        types.StatusSolved,
		Cost:          n.CostFromStart,
		Target:        n.State,
		ReachedTarget: !s.multi || n.Is(types.FlagTarget),
		Expanded:      expanded,
	}
	if !s.reconstruct {
		return result
	}

	for {
		result.Path = append(result.Path, n.State)
		if n.Parent == types.NoParent {
			break
		}
		n = p.pool.Node(n.Parent)
	}
	lo.Reverse(result.Path)

	p.checksum = checksum.Path(result.Path)
	result.Checksum = p.checksum

	return result
}

func failure[S types.State](err error) (Result[S], error) {
	status := types.StatusAllocationFailure
	if errors.Is(err, alloc.ErrEpochExhausted) {
		status = types.StatusEpochExhausted
	}
	return Result[S]{Status: status}, err
}
