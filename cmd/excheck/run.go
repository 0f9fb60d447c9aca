package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"excheck/internal/app/harness"
	"excheck/internal/domain/exercise"
	"excheck/internal/infra/kafka"
	"excheck/internal/ports"
	"excheck/internal/registry"
	"excheck/internal/report"
	runtimex "excheck/internal/runtime"
	"excheck/internal/runtime/docker"
	"excheck/internal/runtime/local"
)

var runCmd = &cobra.Command{
	Use:   "run [root]",
	Short: "Verify every exercise below the root directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(flagConfig)
		if err != nil {
			return err
		}

		summary, err := runExercises(cmd.Context(), cfg, exerciseRoot(args))
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), summary.Render())
		exitCode = summary.ExitCode()
		return nil
	},
}

// runExercises performs one full verification pass over the exercise tree
// rooted at root and returns the aggregated summary. A missing root is an
// error; everything discovered past that point ends up in the summary.
func runExercises(ctx context.Context, cfg appConfig, root string) (report.Summary, error) {
	reg, err := registry.New(root, logger)
	if err != nil {
		return report.Summary{}, err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return report.Summary{}, err
	}
	defer func() {
		if cerr := engine.Close(); cerr != nil {
			logger.Warn("closing runtime engine", zap.Error(cerr))
		}
	}()

	onResult := func(result exercise.Result) {
		logger.Debug("exercise finished",
			zap.String("exercise", result.ID),
			zap.String("status", string(result.Status)),
		)
	}

	if len(cfg.Publish.Brokers) > 0 {
		publisher, perr := kafka.NewPublisher(kafka.Config{
			Brokers: cfg.Publish.Brokers,
			Topic:   cfg.Publish.Topic,
		})
		if perr != nil {
			return report.Summary{}, perr
		}
		defer func() {
			if cerr := publisher.Close(); cerr != nil {
				logger.Warn("closing result publisher", zap.Error(cerr))
			}
		}()

		runID := uuid.NewString()
		logger.Info("publishing results",
			zap.String("run_id", runID),
			zap.Strings("brokers", cfg.Publish.Brokers),
			zap.String("topic", cfg.Publish.Topic),
		)

		// Publishing is best effort. A broker outage must not change
		// the verification verdict.
		onResult = func(result exercise.Result) {
			logger.Debug("exercise finished",
				zap.String("exercise", result.ID),
				zap.String("status", string(result.Status)),
			)
			if perr := publisher.PublishResult(ctx, runID, result); perr != nil {
				logger.Warn("publishing result",
					zap.String("exercise", result.ID),
					zap.Error(perr),
				)
			}
		}
	}

	service := harness.NewService(engineRunner{engine}, logger)
	results, runErr := service.Run(ctx, reg, cfg.MaxParallel, onResult)
	if runErr != nil {
		logger.Warn("run stopped early", zap.Error(runErr))
	}

	return report.NewSummary(results, reg.Len(), reg.Skipped(), runErr != nil), nil
}

func buildEngine(cfg appConfig) (runtimex.Engine, error) {
	switch cfg.Engine {
	case engineLocal:
		return local.New(cfg.localConfig())
	default:
		return docker.New(cfg.dockerConfig())
	}
}

// engineRunner adapts a runtime engine to the harness port.
type engineRunner struct {
	engine runtimex.Engine
}

func (r engineRunner) Prepare(ctx context.Context, ex exercise.Exercise) (ports.PreparedExercise, *exercise.Result, error) {
	return r.engine.Prepare(ctx, ex)
}

func (r engineRunner) Close() error {
	return r.engine.Close()
}
