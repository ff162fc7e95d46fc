package queue

import (
	"github.com/outofforest/pather/alloc"
	"github.com/outofforest/pather/types"
)

// New creates new frontier queue storing nodes of the pool.
func New[S types.State](pool *alloc.Pool[S]) *Queue[S] {
	return &Queue[S]{
		pool: pool,
	}
}

// Queue is the binary min-heap of search nodes ordered by their total cost.
// Nodes with equal cost are ordered by the sequence of their first push, so the order of expansion is
// deterministic.
type Queue[S types.State] struct {
	pool     *alloc.Pool[S]
	items    []types.NodeIndex
	sequence uint64
}

// Len returns the number of nodes in the queue.
func (q *Queue[S]) Len() int {
	return len(q.items)
}

// Clear removes all the nodes from the queue. Flags of removed nodes are not touched, it is expected that the new
// epoch is started in the pool.
func (q *Queue[S]) Clear() {
	q.items = q.items[:0]
	q.sequence = 0
}

// Push inserts node into the queue.
func (q *Queue[S]) Push(index types.NodeIndex) {
	n := q.pool.Node(index)
	n.Set(types.FlagInFrontier)
	n.Sequence = q.sequence
	q.sequence++

	n.HeapIndex = uint32(len(q.items))
	q.items = append(q.items, index)
	q.up(len(q.items) - 1)
}

// PopMin removes and returns the node with the lowest total cost.
func (q *Queue[S]) PopMin() types.NodeIndex {
	last := len(q.items) - 1
	index := q.items[0]
	q.swap(0, last)
	q.items = q.items[:last]
	if last > 0 {
		q.down(0)
	}

	n := q.pool.Node(index)
	n.Clear(types.FlagInFrontier)
	n.HeapIndex = types.NoHeapIndex

	return index
}

// DecreaseKey lowers the total cost of the node already stored in the queue.
func (q *Queue[S]) DecreaseKey(index types.NodeIndex, totalCost float64) {
	n := q.pool.Node(index)
	n.TotalCost = totalCost
	q.up(int(n.HeapIndex))
}

func (q *Queue[S]) less(i, j int) bool {
	ni := q.pool.Node(q.items[i])
	nj := q.pool.Node(q.items[j])
	if ni.TotalCost == nj.TotalCost {
		return ni.Sequence < nj.Sequence
	}
	return ni.TotalCost < nj.TotalCost
}

func (q *Queue[S]) swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.pool.Node(q.items[i]).HeapIndex = uint32(i)
	q.pool.Node(q.items[j]).HeapIndex = uint32(j)
}

func (q *Queue[S]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.less(i, parent) {
			return
		}
		q.swap(i, parent)
		i = parent
	}
}

func (q *Queue[S]) down(i int) {
	n := len(q.items)
	for {
		smallest := i
		if left := 2*i + 1; left < n && q.less(left, smallest) {
			smallest = left
		}
		if right := 2*i + 2; right < n && q.less(right, smallest) {
			smallest = right
		}
		if smallest == i {
			return
		}
		q.swap(i, smallest)
		i = smallest
	}
}
