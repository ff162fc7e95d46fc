package types

import "math"

// State is the constraint every search state must satisfy.
// The engine never interprets states. They are hashed by their in-memory bytes, so they should be pointer-free
// values like grid cells or numeric identifiers.
type State interface {
	comparable
}

type (
	// NodeIndex is the index of a search node inside the node pool.
	NodeIndex uint32

	// Epoch identifies one search generation of the node pool.
	Epoch uint16
)

const (
	// NoParent marks a node without predecessor.
	NoParent NodeIndex = math.MaxUint32

	// MaxEpoch is the last epoch which might be used before the pool must be reset.
	MaxEpoch Epoch = math.MaxUint16

	// NoHeapIndex marks a node which is not stored in the frontier.
	NoHeapIndex uint32 = math.MaxUint32
)

// Flags stores the state of a search node.
type Flags byte

const (
	// FlagInFrontier means node is waiting in the frontier.
	FlagInFrontier Flags = 1 << iota

	// FlagClosed means the cost of the node is final.
	FlagClosed

	// FlagGoalCandidate means reaching the node ends the search.
	FlagGoalCandidate

	// FlagTarget means node is a true target, not only an intermediate waypoint.
	FlagTarget
)

// Status enumerates possible outcomes of a query.
type Status byte

const (
	// StatusSolved means path has been found.
	StatusSolved Status = iota

	// StatusNoSolution means the goal is unreachable.
	StatusNoSolution

	// StatusStartEqualsGoal means start state is the goal so there is nothing to search for.
	StatusStartEqualsGoal

	// StatusEpochExhausted means the epoch counter reached its bound and pool must be reset.
	StatusEpochExhausted

	// StatusAllocationFailure means node pool can't grow anymore.
	StatusAllocationFailure
)

func (s Status) String() string {
	switch s {
	case StatusSolved:
		return "solved"
	case StatusNoSolution:
		return "no_solution"
	case StatusStartEqualsGoal:
		return "start_equals_goal"
	case StatusEpochExhausted:
		return "epoch_exhausted"
	case StatusAllocationFailure:
		return "allocation_failure"
	default:
		return "unknown"
	}
}
