package queue

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/pather/alloc"
	"github.com/outofforest/pather/types"
)

func TestPopMinReturnsNodesInOrder(t *testing.T) {
	requireT := require.New(t)

	p, q := newEnv(requireT)

	costs := []float64{5, 3, 8, 1, 9, 2, 7}
	for i, c := range costs {
		push(requireT, p, q, uint64(i), c)
	}
	requireT.Equal(len(costs), q.Len())

	popped := []float64{}
	for q.Len() > 0 {
		n := p.Node(q.PopMin())
		requireT.False(n.Is(types.FlagInFrontier))
		requireT.Equal(types.NoHeapIndex, n.HeapIndex)
		popped = append(popped, n.TotalCost)
	}

	requireT.Equal([]float64{1, 2, 3, 5, 7, 8, 9}, popped)
}

func TestEqualCostsArePoppedInInsertionOrder(t *testing.T) {
	requireT := require.New(t)

	p, q := newEnv(requireT)

	for i := range uint64(20) {
		push(requireT, p, q, i, 4)
	}

	states := []uint64{}
	for q.Len() > 0 {
		states = append(states, p.Node(q.PopMin()).State)
	}

	requireT.Equal([]uint64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, states)
}

func TestDecreaseKey(t *testing.T) {
	requireT := require.New(t)

	p, q := newEnv(requireT)

	push(requireT, p, q, 0, 10)
	push(requireT, p, q, 1, 20)
	index := push(requireT, p, q, 2, 30)
	push(requireT, p, q, 3, 40)

	q.DecreaseKey(index, 5)
	requireT.True(p.Node(index).Is(types.FlagInFrontier))
	requireT.Equal(index, q.PopMin())
	requireT.Equal(uint64(0), p.Node(q.PopMin()).State)
}

func TestDecreaseKeyKeepsSequence(t *testing.T) {
	requireT := require.New(t)

	p, q := newEnv(requireT)

	push(requireT, p, q, 0, 10)
	index := push(requireT, p, q, 1, 20)

	// Same key as the older node, older node wins.
	q.DecreaseKey(index, 10)
	requireT.Equal(uint64(0), p.Node(q.PopMin()).State)
	requireT.Equal(index, q.PopMin())
}

func TestClear(t *testing.T) {
	requireT := require.New(t)

	p, q := newEnv(requireT)

	push(requireT, p, q, 0, 1)
	push(requireT, p, q, 1, 2)
	q.Clear()
	requireT.Zero(q.Len())

	requireT.NoError(p.NextEpoch())
	index := push(requireT, p, q, 1, 3)
	requireT.Zero(p.Node(index).Sequence)
	requireT.Equal(1, q.Len())
}

func TestRandomOperationsKeepHeapInvariant(t *testing.T) {
	requireT := require.New(t)

	p, q := newEnv(requireT)
	r := rand.New(rand.NewSource(1))

	expected := map[types.NodeIndex]float64{}
	var state uint64
	for range 2000 {
		switch op := r.Intn(3); {
		case op == 0 || q.Len() == 0:
			cost := float64(r.Intn(100))
			index := push(requireT, p, q, state, cost)
			expected[index] = cost
			state++
		case op == 1:
			index := q.PopMin()
			cost := expected[index]
			delete(expected, index)
			for _, c := range expected {
				requireT.LessOrEqual(cost, c)
			}
		default:
			index := q.items[r.Intn(q.Len())]
			cost := expected[index] - float64(r.Intn(10))
			q.DecreaseKey(index, cost)
			expected[index] = cost
		}
		verifyHeap(requireT, p, q)
	}

	costs := make([]float64, 0, len(expected))
	for _, c := range expected {
		costs = append(costs, c)
	}
	sort.Float64s(costs)

	popped := make([]float64, 0, len(costs))
	for q.Len() > 0 {
		popped = append(popped, p.Node(q.PopMin()).TotalCost)
	}
	requireT.Equal(costs, popped)
}

func newEnv(requireT *require.Assertions) (*alloc.Pool[uint64], *Queue[uint64]) {
	p := alloc.NewPool[uint64](alloc.Config{BlockSize: 16})
	requireT.NoError(p.NextEpoch())
	return p, New(p)
}

func push(
	requireT *require.Assertions,
	p *alloc.Pool[uint64],
	q *Queue[uint64],
	state uint64,
	cost float64,
) types.NodeIndex {
	index, err := p.GetOrCreate(state)
	requireT.NoError(err)
	p.Node(index).TotalCost = cost
	q.Push(index)
	return index
}

func verifyHeap(requireT *require.Assertions, p *alloc.Pool[uint64], q *Queue[uint64]) {
	for i, index := range q.items {
		n := p.Node(index)
		requireT.Equal(uint32(i), n.HeapIndex)
		requireT.True(n.Is(types.FlagInFrontier))
		if i > 0 {
			requireT.False(q.less(i, (i-1)/2))
		}
	}
}
