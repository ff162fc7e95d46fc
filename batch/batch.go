package batch

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
	"github.com/outofforest/pather"
	"github.com/outofforest/pather/alloc"
	"github.com/outofforest/pather/metrics"
	"github.com/outofforest/pather/types"
)

// Config stores configuration of the batch runner.
type Config struct {
	// Workers is the number of pathers running queries concurrently.
	Workers uint64
	Pather  pather.Config

	// Recorder receives outcomes of all the queries. It might be nil.
	Recorder *metrics.Recorder
}

// DefaultConfig is the default configuration of the batch runner.
var DefaultConfig = Config{
	Workers: 4,
	Pather:  pather.DefaultConfig,
}

// Response is the outcome of a query executed by the batch runner.
type Response[S types.State] struct {
	pather.Result[S]

	// Worker is the index of the worker which executed the query.
	Worker uint64

	// Err is set if query failed even after resetting the pather.
	Err error
}

// Run executes queries concurrently. Graph is shared by all the workers so it must be safe for concurrent reads.
// Responses are returned in the order of queries. Cancellation is checked between queries only.
func Run[S types.State](
	ctx context.Context,
	graph pather.Graph[S],
	config Config,
	queries []pather.Query[S],
) ([]Response[S], error) {
	numOfWorkers := config.Workers
	if numOfWorkers == 0 {
		numOfWorkers = 1
	}
	numOfWorkers = min(numOfWorkers, uint64(len(queries)))

	responses := make([]Response[S], len(queries))
	log := logger.Get(ctx)
	log.Info("Running queries", zap.Int("queries", len(queries)), zap.Uint64("workers", numOfWorkers))

	err := parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		indexCh := make(chan int)

		spawn("feeder", parallel.Continue, func(ctx context.Context) error {
			defer close(indexCh)

			for i := range queries {
				select {
				case <-ctx.Done():
					return errors.WithStack(ctx.Err())
				case indexCh <- i:
				}
			}
			return nil
		})

		for i := range numOfWorkers {
			spawn(fmt.Sprintf("worker-%02d", i), parallel.Continue, func(ctx context.Context) error {
				w := &worker[S]{
					index:    i,
					pather:   pather.New(graph, config.Pather),
					recorder: config.Recorder,
					log:      log.With(zap.Uint64("worker", i)),
				}
				for index := range indexCh {
					responses[index] = w.run(queries[index])
				}
				return errors.WithStack(ctx.Err())
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return responses, nil
}

type worker[S types.State] struct {
	index    uint64
	pather   *pather.Pather[S]
	recorder *metrics.Recorder
	log      *zap.Logger
}

func (w *worker[S]) run(query pather.Query[S]) Response[S] {
	result, err := w.pather.Run(query)
	if errors.Is(err, alloc.ErrEpochExhausted) {
		w.reset("Epochs exhausted, resetting pather")
		result, err = w.pather.Run(query)
	}
	if errors.Is(err, alloc.ErrAllocationFailure) {
		w.reset("Node pool cannot grow, resetting pather", zap.Error(err))
	}

	w.recorder.Observe(result.Status, result.Expanded, len(result.Path))

	return Response[S]{
		Result: result,
		Worker: w.index,
		Err:    err,
	}
}

func (w *worker[S]) reset(msg string, fields ...zap.Field) {
	w.log.Info(msg, append(fields, zap.Uint64("resets", w.pather.Stats().Pool.Resets+1))...)
	w.pather.Reset()
	w.recorder.ObserveReset()
}
