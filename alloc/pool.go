package alloc

import (
	"math"

	"github.com/pkg/errors"

	"github.com/outofforest/mass"
	"github.com/outofforest/pather/types"
)

var (
	// ErrAllocationFailure is returned when node pool can't grow anymore.
	ErrAllocationFailure = errors.New("node pool cannot grow")

	// ErrEpochExhausted is returned when epoch counter reached its bound and pool must be reset.
	ErrEpochExhausted = errors.New("epoch counter exhausted")
)

// Config stores configuration of node pool.
type Config struct {
	// BlockSize is the number of nodes allocated at once.
	BlockSize uint64

	// MaxBlocks limits the number of blocks pool might allocate. Zero means no limit.
	MaxBlocks uint64

	// MaxEpoch is the last epoch usable before reset is required. Zero means types.MaxEpoch.
	MaxEpoch types.Epoch
}

// DefaultConfig is the default configuration of node pool.
var DefaultConfig = Config{
	BlockSize: 4096,
	MaxEpoch:  types.MaxEpoch,
}

// Stats contains statistics of node pool.
type Stats struct {
	Blocks uint64
	Nodes  uint64
	Epoch  types.Epoch
	Resets uint64
}

// NewPool creates new node pool.
func NewPool[S types.State](config Config) *Pool[S] {
	if config.BlockSize == 0 {
		config.BlockSize = DefaultConfig.BlockSize
	}
	if config.MaxEpoch == 0 {
		config.MaxEpoch = types.MaxEpoch
	}

	p := &Pool[S]{
		config: config,
	}
	p.reallocate()
	return p
}

// Pool owns all the search nodes. Nodes are allocated in blocks and recycled between searches by stamping them
// with the epoch they are valid for.
type Pool[S types.State] struct {
	config Config

	records *mass.Mass[Node[S]]
	nodes   []*Node[S]
	index   map[S]types.NodeIndex

	blocks uint64
	epoch  types.Epoch
	resets uint64
	broken bool
}

// GetOrCreate returns the index of the node representing the state. Node is reset if it was used in previous epoch.
func (p *Pool[S]) GetOrCreate(state S) (types.NodeIndex, error) {
	if p.broken {
		return 0, errors.WithStack(ErrAllocationFailure)
	}

	if index, exists := p.index[state]; exists {
		if n := p.nodes[index]; n.Epoch != p.epoch {
			n.reuse(p.epoch)
		}
		return index, nil
	}

	count := uint64(len(p.nodes))
	if count == math.MaxUint32 {
		p.broken = true
		return 0, errors.Wrap(ErrAllocationFailure, "node index space exhausted")
	}
	if count%p.config.BlockSize == 0 {
		if p.config.MaxBlocks > 0 && p.blocks == p.config.MaxBlocks {
			p.broken = true
			return 0, errors.Wrapf(ErrAllocationFailure, "limit of %d blocks reached", p.config.MaxBlocks)
		}
		p.blocks++
	}

	n := p.records.New()
	n.State = state
	n.reuse(p.epoch)

	index := types.NodeIndex(count)
	p.nodes = append(p.nodes, n)
	p.index[state] = index

	return index, nil
}

// Lookup returns the index of the node representing the state if it has been touched in current epoch.
func (p *Pool[S]) Lookup(state S) (types.NodeIndex, bool) {
	index, exists := p.index[state]
	if !exists || p.nodes[index].Epoch != p.epoch {
		return 0, false
	}
	return index, true
}

// Node returns node stored under the index.
func (p *Pool[S]) Node(index types.NodeIndex) *Node[S] {
	return p.nodes[index]
}

// NextEpoch starts new search generation, invalidating all the nodes logically.
func (p *Pool[S]) NextEpoch() error {
	if p.broken {
		return errors.WithStack(ErrAllocationFailure)
	}
	if p.epoch >= p.config.MaxEpoch {
		return errors.WithStack(ErrEpochExhausted)
	}
	p.epoch++
	return nil
}

// Epoch returns current epoch.
func (p *Pool[S]) Epoch() types.Epoch {
	return p.epoch
}

// EpochsLeft returns the number of epochs which might be started before reset is required.
func (p *Pool[S]) EpochsLeft() uint64 {
	return uint64(p.config.MaxEpoch - p.epoch)
}

// Broken tells if pool failed to allocate memory and must be reset before it is used again.
func (p *Pool[S]) Broken() bool {
	return p.broken
}

// Reset drops all the nodes and zeroes the epoch counter.
func (p *Pool[S]) Reset() {
	p.reallocate()
	p.resets++
}

// Stats returns statistics of the pool.
func (p *Pool[S]) Stats() Stats {
	return Stats{
		Blocks: p.blocks,
		Nodes:  uint64(len(p.nodes)),
		Epoch:  p.epoch,
		Resets: p.resets,
	}
}

func (p *Pool[S]) reallocate() {
	p.records = mass.New[Node[S]](p.config.BlockSize)
	p.nodes = make([]*Node[S], 0, p.config.BlockSize)
	p.index = make(map[S]types.NodeIndex, p.config.BlockSize)
	p.blocks = 0
	p.epoch = 0
	p.broken = false
}
