package batch

import (
	"context"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/logger"
	"github.com/outofforest/pather"
	"github.com/outofforest/pather/alloc"
	"github.com/outofforest/pather/grid"
	"github.com/outofforest/pather/metrics"
	"github.com/outofforest/pather/types"
)

func TestResultsMatchSequentialRun(t *testing.T) {
	requireT := require.New(t)

	g, queries := newEnv(requireT, 200)

	responses, err := Run(newContext(t), g, Config{Workers: 4, Pather: pather.DefaultConfig}, queries)
	requireT.NoError(err)
	requireT.Len(responses, len(queries))

	p := pather.New[grid.Cell](g, pather.DefaultConfig)
	workers := map[uint64]struct{}{}
	for i, q := range queries {
		expected, err := p.Run(q)
		requireT.NoError(err)

		requireT.NoError(responses[i].Err)
		requireT.Equal(expected.Status, responses[i].Status)
		requireT.Equal(expected.Path, responses[i].Path)
		requireT.InDelta(expected.Cost, responses[i].Cost, 1e-9)
		requireT.Equal(expected.Checksum, responses[i].Checksum)
		workers[responses[i].Worker] = struct{}{}
	}
	requireT.LessOrEqual(len(workers), 4)
}

func TestEpochExhaustionIsHandled(t *testing.T) {
	requireT := require.New(t)

	g, queries := newEnv(requireT, 50)
	recorder := metrics.New("pather")
	registry := prometheus.NewRegistry()
	requireT.NoError(recorder.Register(registry))

	responses, err := Run(newContext(t), g, Config{
		Workers:  2,
		Pather:   pather.Config{Pool: alloc.Config{MaxEpoch: 3}},
		Recorder: recorder,
	}, queries)
	requireT.NoError(err)

	for _, r := range responses {
		requireT.NoError(r.Err)
		requireT.NotEqual(types.StatusEpochExhausted, r.Status)
	}

	families, err := registry.Gather()
	requireT.NoError(err)
	values := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			values[f.GetName()] += m.GetCounter().GetValue()
		}
	}
	requireT.Positive(values["pather_pool_resets_total"])
	requireT.InDelta(float64(len(queries)), values["pather_queries_total"], 0)
}

func TestAllocationFailureIsReported(t *testing.T) {
	requireT := require.New(t)

	g, err := grid.New(grid.Config{Width: 10, Height: 10})
	requireT.NoError(err)

	queries := []pather.Query[grid.Cell]{
		{Start: grid.Cell{X: 0, Y: 0}, Goal: grid.Cell{X: 9, Y: 9}},
		{Start: grid.Cell{X: 0, Y: 0}, Goal: grid.Cell{X: 1, Y: 0}},
	}

	responses, err := Run(newContext(t), g, Config{
		Workers: 1,
		Pather:  pather.Config{Pool: alloc.Config{BlockSize: 4, MaxBlocks: 1}},
	}, queries)
	requireT.NoError(err)

	requireT.Equal(types.StatusAllocationFailure, responses[0].Status)
	requireT.True(errors.Is(responses[0].Err, alloc.ErrAllocationFailure))

	// Worker resets the pather after failure so next query succeeds.
	requireT.NoError(responses[1].Err)
	requireT.Equal(types.StatusSolved, responses[1].Status)
}

func TestNoQueries(t *testing.T) {
	requireT := require.New(t)

	g, _ := newEnv(requireT, 0)

	responses, err := Run[grid.Cell](newContext(t), g, DefaultConfig, nil)
	requireT.NoError(err)
	requireT.Empty(responses)
}

func TestCanceledContext(t *testing.T) {
	requireT := require.New(t)

	g, queries := newEnv(requireT, 100)

	ctx, cancel := context.WithCancel(newContext(t))
	cancel()

	_, err := Run(ctx, g, DefaultConfig, queries)
	requireT.True(errors.Is(err, context.Canceled))
}

func newContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), logger.New(logger.DefaultConfig)))
	t.Cleanup(cancel)
	return ctx
}

func newEnv(requireT *require.Assertions, numOfQueries int) (*grid.Grid, []pather.Query[grid.Cell]) {
	const (
		width  = 30
		height = 20
	)

	r := rand.New(rand.NewSource(11))

	g, err := grid.New(grid.Config{Width: width, Height: height, Diagonal: true})
	requireT.NoError(err)
	for range width * height / 5 {
		requireT.NoError(g.SetPassable(grid.Cell{X: r.Intn(width), Y: r.Intn(height)}, false))
	}
	for range width * height / 10 {
		requireT.NoError(g.SetDanger(grid.Cell{X: r.Intn(width), Y: r.Intn(height)}, 1+float64(r.Intn(3))))
	}

	randomCell := func() grid.Cell {
		return grid.Cell{X: r.Intn(width), Y: r.Intn(height)}
	}

	queries := make([]pather.Query[grid.Cell], 0, numOfQueries)
	for i := range numOfQueries {
		q := pather.Query[grid.Cell]{
			Start: randomCell(),
			Goal:  randomCell(),
		}
		switch i % 5 {
		case 1:
			q.Radius = 3
		case 2:
			q.Targets = []grid.Cell{randomCell(), randomCell()}
		case 3:
			q.Safety = &pather.Safety[grid.Cell]{Danger: g.Danger, Weight: 1}
		case 4:
			q.CostOnly = true
		}
		queries = append(queries, q)
	}
	return g, queries
}
