package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/outofforest/pather"
	"github.com/outofforest/pather/grid"
)

// Scenario describes the grid and queries executed on it.
type Scenario struct {
	Width    int          `yaml:"width"`
	Height   int          `yaml:"height"`
	Diagonal bool         `yaml:"diagonal"`
	Blocked  []Point      `yaml:"blocked"`
	Costs    []CellValue  `yaml:"costs"`
	Danger   []CellValue  `yaml:"danger"`
	Queries  []QueryEntry `yaml:"queries"`
}

// Point is the cell of the grid.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Cell converts point to grid cell.
func (p Point) Cell() grid.Cell {
	return grid.Cell{X: p.X, Y: p.Y}
}

// CellValue assigns value to the cell.
type CellValue struct {
	Point `yaml:",inline"`
	Value float64 `yaml:"value"`
}

// QueryEntry describes one query.
type QueryEntry struct {
	Name       string  `yaml:"name"`
	Start      Point   `yaml:"start"`
	Goal       Point   `yaml:"goal"`
	Radius     float64 `yaml:"radius"`
	Candidates []Point `yaml:"candidates"`
	Targets    []Point `yaml:"targets"`

	// Safety is the weight of cell danger. Zero turns danger shaping off.
	Safety   float64 `yaml:"safety"`
	CostOnly bool    `yaml:"costOnly"`
}

// LoadScenario reads scenario from YAML file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, errors.WithStack(err)
	}
	return ParseScenario(data)
}

// ParseScenario parses YAML scenario.
func ParseScenario(data []byte) (Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, errors.Wrap(err, "parsing scenario failed")
	}
	if len(s.Queries) == 0 {
		return Scenario{}, errors.New("scenario contains no queries")
	}
	return s, nil
}

// Grid builds the grid described by the scenario.
func (s Scenario) Grid() (*grid.Grid, error) {
	g, err := grid.New(grid.Config{
		Width:    s.Width,
		Height:   s.Height,
		Diagonal: s.Diagonal,
	})
	if err != nil {
		return nil, err
	}

	for _, p := range s.Blocked {
		if err := g.SetPassable(p.Cell(), false); err != nil {
			return nil, err
		}
	}
	for _, c := range s.Costs {
		if err := g.SetCost(c.Cell(), c.Value); err != nil {
			return nil, err
		}
	}
	for _, c := range s.Danger {
		if err := g.SetDanger(c.Cell(), c.Value); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// PatherQueries converts scenario queries to the ones executed by the pather.
func (s Scenario) PatherQueries(g *grid.Grid) []pather.Query[grid.Cell] {
	queries := make([]pather.Query[grid.Cell], 0, len(s.Queries))
	for _, q := range s.Queries {
		pq := pather.Query[grid.Cell]{
			Start:      q.Start.Cell(),
			Goal:       q.Goal.Cell(),
			Candidates: cells(q.Candidates),
			Targets:    cells(q.Targets),
			Radius:     q.Radius,
			CostOnly:   q.CostOnly,
		}
		if q.Safety > 0 {
			pq.Safety = &pather.Safety[grid.Cell]{
				Danger: g.Danger,
				Weight: q.Safety,
			}
		}
		queries = append(queries, pq)
	}
	return queries
}

func cells(points []Point) []grid.Cell {
	if len(points) == 0 {
		return nil
	}
	result := make([]grid.Cell, 0, len(points))
	for _, p := range points {
		result = append(result, p.Cell())
	}
	return result
}
