package harness

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"excheck/internal/domain/exercise"
)

// verify produces exactly one result for one exercise: compile, run once,
// then apply the exercise's check to the captured outcome.
func (s *Service) verify(ctx context.Context, ex exercise.Exercise) exercise.Result {
	prepared, buildResult, err := s.runner.Prepare(ctx, ex)
	if err != nil {
		s.logger.Warn("runner failed to prepare exercise", zap.String("id", ex.ID), zap.Error(err))
		return exercise.Result{
			ID:     ex.ID,
			Status: exercise.StatusFailed,
			Detail: fmt.Sprintf("runner error: %v", err),
		}
	}
	if prepared != nil {
		defer prepared.Close()
	}

	if buildResult != nil {
		result := *buildResult
		result.ID = ex.ID
		return result
	}

	if prepared == nil {
		return exercise.Result{
			ID:     ex.ID,
			Status: exercise.StatusFailed,
			Detail: "runner returned neither a prepared exercise nor a build result",
		}
	}

	run, err := prepared.Run(ctx)
	if err != nil {
		s.logger.Warn("runner failed to execute exercise", zap.String("id", ex.ID), zap.Error(err))
		return exercise.Result{
			ID:     ex.ID,
			Status: exercise.StatusFailed,
			Detail: fmt.Sprintf("runner error: %v", err),
		}
	}

	result := *run
	result.ID = ex.ID

	// A pre-classified status (timeout, memory kill) is final; the check
	// only applies to a run that completed on its own.
	if result.Status != "" {
		return result
	}

	applyCheck(&result, ex.Check)
	return result
}

func applyCheck(result *exercise.Result, check exercise.Check) {
	switch check.Kind {
	case exercise.KindAssert:
		if result.ExitCode == 0 {
			result.Status = exercise.StatusPassed
			return
		}
		result.Status = exercise.StatusFailed
		result.Detail = assertionDetail(result)

	case exercise.KindOutput:
		if result.ExitCode != 0 {
			result.Status = exercise.StatusFailed
			result.Detail = assertionDetail(result)
			return
		}
		if result.Stdout == check.ExpectedOutput {
			result.Status = exercise.StatusPassed
			return
		}
		result.Status = exercise.StatusFailed
		result.Detail = fmt.Sprintf("output mismatch\nexpected:\n%s\ngot:\n%s", check.ExpectedOutput, result.Stdout)

	default:
		result.Status = exercise.StatusFailed
		result.Detail = fmt.Sprintf("unknown check kind %q", check.Kind)
	}
}

// assertionDetail surfaces whatever the failing program said, verbatim,
// falling back to the bare exit code when it said nothing.
func assertionDetail(result *exercise.Result) string {
	if detail := strings.TrimSpace(result.Stderr); detail != "" {
		return result.Stderr
	}
	if detail := strings.TrimSpace(result.Stdout); detail != "" {
		return result.Stdout
	}
	return fmt.Sprintf("exited with code %d", result.ExitCode)
}
