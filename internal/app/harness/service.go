// Package harness coordinates one full verification run: it pulls
// exercises from a source, dispatches them across a bounded worker pool,
// and funnels every outcome through a single collector.
package harness

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"excheck/internal/domain/exercise"
	"excheck/internal/ports"
)

// Service verifies exercises through a runtime implementation.
type Service struct {
	runner ports.Runner
	logger *zap.Logger
}

// NewService constructs a Service with the provided runtime dependency.
func NewService(runner ports.Runner, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{runner: runner, logger: logger}
}

// Run pulls exercises from the source until it is exhausted and verifies
// each one, at most maxParallel at a time. Results are delivered to
// onResult one at a time, from a single goroutine, as executions complete;
// the returned slice holds the same results in completion order.
//
// Cancelling ctx stops dispatching new exercises; in-flight executions
// finish or hit their own time limit. A cancelled run returns the results
// collected so far together with the context error, so callers never
// mistake a partial run for a complete one.
func (s *Service) Run(ctx context.Context, source ports.ExerciseSource, maxParallel int, onResult func(exercise.Result)) ([]exercise.Result, error) {
	if maxParallel <= 0 {
		maxParallel = 1
	}

	// In-flight verifications deliberately outlive ctx; the engines bound
	// them with per-exercise time limits.
	runCtx := context.WithoutCancel(ctx)

	resultCh := make(chan exercise.Result)
	collectorDone := make(chan struct{})

	var results []exercise.Result
	go func() {
		defer close(collectorDone)
		for result := range resultCh {
			results = append(results, result)
			if onResult != nil {
				onResult(result)
			}
		}
	}()

	var group errgroup.Group
	group.SetLimit(maxParallel)

	var dispatchErr error
	for {
		if err := ctx.Err(); err != nil {
			dispatchErr = err
			break
		}

		ex, err := source.Next(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				dispatchErr = err
			}
			break
		}

		group.Go(func() error {
			result := s.verify(runCtx, ex)
			resultCh <- result
			return nil
		})
	}

	_ = group.Wait()
	close(resultCh)
	<-collectorDone

	return results, dispatchErr
}
