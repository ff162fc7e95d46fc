package grid

import (
	"iter"
	"math"

	"github.com/pkg/errors"
)

// Cell is the position on the grid.
type Cell struct {
	X, Y int
}

// Config stores configuration of the grid.
type Config struct {
	Width    int
	Height   int
	Diagonal bool
}

var (
	straightMoves = []Cell{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	diagonalMoves = []Cell{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
)

// New creates new grid with all the cells passable, cost 1 and no danger.
func New(config Config) (*Grid, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, errors.Errorf("invalid grid size %dx%d", config.Width, config.Height)
	}

	size := config.Width * config.Height
	g := &Grid{
		config:   config,
		passable: make([]bool, size),
		cost:     make([]float64, size),
		danger:   make([]float64, size),
		minCost:  1,
	}
	for i := range size {
		g.passable[i] = true
		g.cost[i] = 1
	}
	return g, nil
}

// Grid is the map searched by the pather. Moving into a cell costs the length of the move multiplied by the cost of
// the cell. Diagonal moves are not allowed to cut corners of blocked cells.
type Grid struct {
	config   Config
	passable []bool
	cost     []float64
	danger   []float64
	minCost  float64
}

// Width returns width of the grid.
func (g *Grid) Width() int {
	return g.config.Width
}

// Height returns height of the grid.
func (g *Grid) Height() int {
	return g.config.Height
}

// Contains tells if cell lies on the grid.
func (g *Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.config.Width && c.Y >= 0 && c.Y < g.config.Height
}

// Passable tells if cell might be entered.
func (g *Grid) Passable(c Cell) bool {
	return g.Contains(c) && g.passable[g.offset(c)]
}

// SetPassable marks cell as passable or blocked.
func (g *Grid) SetPassable(c Cell, passable bool) error {
	if !g.Contains(c) {
		return errors.Errorf("cell %v is out of grid", c)
	}
	g.passable[g.offset(c)] = passable
	return nil
}

// Block marks cells as blocked.
func (g *Grid) Block(cells ...Cell) error {
	for _, c := range cells {
		if err := g.SetPassable(c, false); err != nil {
			return err
		}
	}
	return nil
}

// Cost returns the cost multiplier of the cell. Cells out of the grid can't be entered so their cost is infinite.
func (g *Grid) Cost(c Cell) float64 {
	if !g.Contains(c) {
		return math.Inf(1)
	}
	return g.cost[g.offset(c)]
}

// SetCost sets the cost multiplier of the cell.
func (g *Grid) SetCost(c Cell, cost float64) error {
	if !g.Contains(c) {
		return errors.Errorf("cell %v is out of grid", c)
	}
	if cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return errors.Errorf("invalid cost %f", cost)
	}

	offset := g.offset(c)
	previous := g.cost[offset]
	g.cost[offset] = cost

	switch {
	case cost < g.minCost:
		g.minCost = cost
	case previous == g.minCost && cost > previous:
		g.minCost = math.Inf(1)
		for _, v := range g.cost {
			g.minCost = math.Min(g.minCost, v)
		}
	}
	return nil
}

// Danger returns the danger of the cell.
func (g *Grid) Danger(c Cell) float64 {
	if !g.Contains(c) {
		return 0
	}
	return g.danger[g.offset(c)]
}

// SetDanger sets the danger of the cell.
func (g *Grid) SetDanger(c Cell, danger float64) error {
	if !g.Contains(c) {
		return errors.Errorf("cell %v is out of grid", c)
	}
	if danger < 0 || math.IsNaN(danger) {
		return errors.Errorf("invalid danger %f", danger)
	}
	g.danger[g.offset(c)] = danger
	return nil
}

// Successors returns passable neighbours of the cell together with the cost of moving there.
func (g *Grid) Successors(c Cell) iter.Seq2[Cell, float64] {
	return func(yield func(Cell, float64) bool) {
		for _, m := range straightMoves {
			next := Cell{X: c.X + m.X, Y: c.Y + m.Y}
			if !g.Passable(next) {
				continue
			}
			if !yield(next, g.cost[g.offset(next)]) {
				return
			}
		}

		if !g.config.Diagonal {
			return
		}

		for _, m := range diagonalMoves {
			next := Cell{X: c.X + m.X, Y: c.Y + m.Y}
			if !g.Passable(next) || !g.Passable(Cell{X: next.X, Y: c.Y}) || !g.Passable(Cell{X: c.X, Y: next.Y}) {
				continue
			}
			if !yield(next, math.Sqrt2*g.cost[g.offset(next)]) {
				return
			}
		}
	}
}

// EstimateCost returns the lower bound of the cost of moving between cells.
func (g *Grid) EstimateCost(from, to Cell) float64 {
	dx := math.Abs(float64(from.X - to.X))
	dy := math.Abs(float64(from.Y - to.Y))

	if !g.config.Diagonal {
		return (dx + dy) * g.minCost
	}
	return (math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)) * g.minCost
}

// Distance returns the euclidean distance between cells.
func (g *Grid) Distance(from, to Cell) float64 {
	return math.Hypot(float64(from.X-to.X), float64(from.Y-to.Y))
}

// DistanceScale returns the factor bounding EstimateCost by Distance. Manhattan distance exceeds euclidean one by
// at most sqrt(2), octile distance by at most sqrt(4 - 2*sqrt(2)).
func (g *Grid) DistanceScale() float64 {
	if !g.config.Diagonal {
		return math.Sqrt2 * g.minCost
	}
	return math.Sqrt(4-2*math.Sqrt2) * g.minCost
}

// DirectCost returns the cost of walking the straight line from one cell towards another until the distance to the
// destination is not greater than radius. False is returned if the line crosses a blocked cell or cuts a corner of
// one, the same way Successors forbids it.
func (g *Grid) DirectCost(from, to Cell, radius float64) (float64, bool) {
	if !g.Passable(from) {
		return 0, false
	}
	radius = math.Max(radius, 0)

	dx := abs(to.X - from.X)
	dy := -abs(to.Y - from.Y)
	sx := sign(to.X - from.X)
	sy := sign(to.Y - from.Y)
	e := dx + dy

	var cost float64
	c := from
	for g.Distance(c, to) > radius {
		next := c
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			next.X += sx
		}
		if e2 <= dx {
			e += dx
			next.Y += sy
		}
		if !g.Passable(next) {
			return 0, false
		}

		step := 1.0
		if next.X != c.X && next.Y != c.Y {
			if !g.Passable(Cell{X: next.X, Y: c.Y}) || !g.Passable(Cell{X: c.X, Y: next.Y}) {
				return 0, false
			}
			step = math.Sqrt2
		}
		cost += step * g.cost[g.offset(next)]
		c = next
	}
	return cost, true
}

func (g *Grid) offset(c Cell) int {
	return c.Y*g.config.Width + c.X
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
