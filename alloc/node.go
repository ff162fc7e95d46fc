package alloc

import (
	"math"

	"github.com/outofforest/pather/types"
)

// Node is the search record of a single state.
type Node[S types.State] struct {
	State S

	// CostFromStart is the exact cost of the best path known so far.
	CostFromStart float64

	// TotalCost is CostFromStart plus the heuristic estimate. It is the frontier key.
	TotalCost float64

	Parent    types.NodeIndex
	Sequence  uint64
	HeapIndex uint32
	Epoch     types.Epoch
	Flags     types.Flags
}

// Is tells if flag is set.
func (n *Node[S]) Is(flag types.Flags) bool {
	return n.Flags&flag != 0
}

// Set sets flag.
func (n *Node[S]) Set(flag types.Flags) {
	n.Flags |= flag
}

// Clear clears flag.
func (n *Node[S]) Clear(flag types.Flags) {
	n.Flags &^= flag
}

func (n *Node[S]) reuse(epoch types.Epoch) {
	n.CostFromStart = math.Inf(1)
	n.TotalCost = math.Inf(1)
	n.Parent = types.NoParent
	n.Sequence = 0
	n.HeapIndex = types.NoHeapIndex
	n.Epoch = epoch
	n.Flags = 0
}
