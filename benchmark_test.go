package pather_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/pather"
	"github.com/outofforest/pather/grid"
	"github.com/outofforest/pather/types"
)

// go test -benchtime=100x -bench=. -run=^$ -cpuprofile profile.out
// go tool pprof -http="localhost:8000" pprofbin ./profile.out

func BenchmarkSolve(b *testing.B) {
	const (
		width   = 512
		height  = 512
		queries = 100
	)

	b.StopTimer()
	b.ResetTimer()

	r := rand.New(rand.NewSource(1))

	g, err := grid.New(grid.Config{Width: width, Height: height, Diagonal: true})
	require.NoError(b, err)
	for range width * height / 5 {
		c := grid.Cell{X: r.Intn(width), Y: r.Intn(height)}
		require.NoError(b, g.SetPassable(c, false))
	}
	for range width * height / 10 {
		c := grid.Cell{X: r.Intn(width), Y: r.Intn(height)}
		require.NoError(b, g.SetCost(c, 1+float64(r.Intn(8))))
	}

	pairs := make([][2]grid.Cell, 0, queries)
	for len(pairs) < queries {
		start := grid.Cell{X: r.Intn(width), Y: r.Intn(height)}
		goal := grid.Cell{X: r.Intn(width), Y: r.Intn(height)}
		if g.Passable(start) && g.Passable(goal) {
			pairs = append(pairs, [2]grid.Cell{start, goal})
		}
	}

	p := pather.New[grid.Cell](g, pather.DefaultConfig)

	for bi := 0; bi < b.N; bi++ {
		if p.EpochsLeft() < queries {
			p.Reset()
		}

		b.StartTimer()
		for _, pair := range pairs {
			result, err := p.Solve(pair[0], pair[1])
			if err != nil {
				panic(err)
			}
			if result.Status == types.StatusSolved && result.Path[len(result.Path)-1] != pair[1] {
				panic("path doesn't end at the goal")
			}
		}
		b.StopTimer()
	}

	fmt.Println(p.Stats())
}
