package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/outofforest/logger"
	"github.com/outofforest/pather/alloc"
	"github.com/outofforest/pather/batch"
	"github.com/outofforest/pather/metrics"
)

func main() {
	ctx := logger.WithLogger(context.Background(), logger.New(logger.DefaultConfig))
	if err := rootCmd().ExecuteContext(ctx); err != nil {
		logger.Get(ctx).Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pather",
		Short:        "Finds paths on grids described by YAML scenarios",
		SilenceUsage: true,
	}
	cmd.AddCommand(runCmd())
	return cmd
}

func runCmd() *cobra.Command {
	var scenarioPath string
	config := batch.DefaultConfig

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs queries of the scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), scenarioPath, config)
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "path to the YAML scenario")
	cmd.Flags().Uint64Var(&config.Workers, "workers", config.Workers, "number of concurrent workers")
	cmd.Flags().Uint64Var(&config.Pather.Pool.BlockSize, "block-size", config.Pather.Pool.BlockSize,
		"number of search nodes allocated at once")
	cmd.Flags().Uint64Var(&config.Pather.Pool.MaxBlocks, "max-blocks", 0,
		"limit of node blocks allocated by each worker, 0 means no limit")
	cmd.Flags().Uint16Var((*uint16)(&config.Pather.Pool.MaxEpoch), "max-epoch", uint16(alloc.DefaultConfig.MaxEpoch),
		"number of queries executed by each worker before its node pool is reset")
	if err := cmd.MarkFlagRequired("scenario"); err != nil {
		panic(err)
	}

	return cmd
}

func run(ctx context.Context, scenarioPath string, config batch.Config) error {
	log := logger.Get(ctx)

	scenario, err := LoadScenario(scenarioPath)
	if err != nil {
		return err
	}
	g, err := scenario.Grid()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	config.Recorder = metrics.New("pather")
	if err := config.Recorder.Register(registry); err != nil {
		return err
	}

	responses, err := batch.Run(ctx, g, config, scenario.PatherQueries(g))
	if err != nil {
		return err
	}

	var failed int
	for i, r := range responses {
		fields := []zap.Field{
			zap.String("query", scenario.Queries[i].Name),
			zap.Stringer("status", r.Status),
			zap.Float64("cost", r.Cost),
			zap.Int("length", len(r.Path)),
			zap.Any("target", r.Target),
			zap.Bool("reachedTarget", r.ReachedTarget),
			zap.Uint64("expanded", r.Expanded),
			zap.Uint64("checksum", r.Checksum),
			zap.Uint64("worker", r.Worker),
		}
		if r.Err != nil {
			failed++
			log.Error("Query failed", append(fields, zap.Error(r.Err))...)
			continue
		}
		log.Info("Query executed", append(fields, zap.Any("path", r.Path))...)
	}

	families, err := registry.Gather()
	if err != nil {
		return errors.WithStack(err)
	}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			value := m.GetCounter().GetValue()
			if h := m.GetHistogram(); h != nil {
				value = float64(h.GetSampleCount())
			}
			log.Info("Metric", zap.String("name", f.GetName()), zap.Any("labels", m.GetLabel()),
				zap.Float64("value", value))
		}
	}

	if failed > 0 {
		return errors.Errorf("%d queries failed", failed)
	}
	return nil
}
