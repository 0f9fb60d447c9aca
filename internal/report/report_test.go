package report

import (
	"strings"
	"testing"

	"excheck/internal/domain/exercise"
)

func sampleResults() []exercise.Result {
	return []exercise.Result{
		{ID: "06_move_semantics/move_semantics3", Status: exercise.StatusFailed, Detail: "assertion failed: got [22 44 66], want [22 44 66 88]"},
		{ID: "02_functions/functions5", Status: exercise.StatusPassed},
		{ID: "09_loops/forever", Status: exercise.StatusTimeout, Detail: "timed out after 10s"},
		{ID: "04_primitives/primitives2", Status: exercise.StatusCompileError, Detail: "./main.go:4:5: undefined: x"},
	}
}

func TestSummaryCountsAndOrdering(t *testing.T) {
	t.Parallel()

	summary := NewSummary(sampleResults(), 4, 0, false)

	if summary.Executed() != 4 {
		t.Fatalf("expected 4 executed, got %d", summary.Executed())
	}
	if summary.Count(exercise.StatusPassed) != 1 {
		t.Fatalf("expected 1 passed, got %d", summary.Count(exercise.StatusPassed))
	}
	if summary.Count(exercise.StatusTimeout) != 1 {
		t.Fatalf("expected 1 timeout, got %d", summary.Count(exercise.StatusTimeout))
	}

	failures := summary.Failures()
	wantOrder := []string{
		"04_primitives/primitives2",
		"06_move_semantics/move_semantics3",
		"09_loops/forever",
	}
	if len(failures) != len(wantOrder) {
		t.Fatalf("expected %d failures, got %d", len(wantOrder), len(failures))
	}
	for i, id := range wantOrder {
		if failures[i].ID != id {
			t.Fatalf("failure %d: got %q want %q", i, failures[i].ID, id)
		}
	}
}

func TestSummaryExitCode(t *testing.T) {
	t.Parallel()

	allPassed := NewSummary([]exercise.Result{
		{ID: "a", Status: exercise.StatusPassed},
		{ID: "b", Status: exercise.StatusPassed},
	}, 2, 0, false)
	if allPassed.ExitCode() != 0 {
		t.Fatalf("expected exit 0 when everything passed, got %d", allPassed.ExitCode())
	}

	withFailure := NewSummary(sampleResults(), 4, 0, false)
	if withFailure.ExitCode() == 0 {
		t.Fatalf("expected non-zero exit with failures")
	}

	cancelled := NewSummary([]exercise.Result{
		{ID: "a", Status: exercise.StatusPassed},
	}, 5, 0, true)
	if cancelled.ExitCode() == 0 {
		t.Fatalf("expected non-zero exit for an incomplete run")
	}

	empty := NewSummary(nil, 0, 0, false)
	if empty.ExitCode() != 0 {
		t.Fatalf("expected exit 0 for an empty run, got %d", empty.ExitCode())
	}
}

func TestSummaryRenderListsEveryNonPassedExercise(t *testing.T) {
	t.Parallel()

	summary := NewSummary(sampleResults(), 4, 1, false)
	rendered := summary.Render()

	for _, want := range []string{
		"06_move_semantics/move_semantics3",
		"want [22 44 66 88]",
		"09_loops/forever",
		"timed out after 10s",
		"04_primitives/primitives2",
		"undefined: x",
		"1 passed, 1 failed, 1 timed out, 1 compile error(s)",
		"1 malformed file(s) skipped",
	} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("summary missing %q:\n%s", want, rendered)
		}
	}

	if strings.Contains(rendered, "02_functions/functions5") {
		t.Fatalf("passed exercises should not be listed:\n%s", rendered)
	}
}

func TestSummaryRenderIsDeterministic(t *testing.T) {
	t.Parallel()

	first := NewSummary(sampleResults(), 4, 0, false).Render()

	reversed := sampleResults()
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	second := NewSummary(reversed, 4, 0, false).Render()

	if first != second {
		t.Fatalf("summary depends on completion order:\n%s\nvs\n%s", first, second)
	}
}

func TestSummaryIncompleteRunIsMarked(t *testing.T) {
	t.Parallel()

	summary := NewSummary([]exercise.Result{{ID: "a", Status: exercise.StatusPassed}}, 3, 0, true)
	rendered := summary.Render()
	if !strings.Contains(rendered, "cancelled") {
		t.Fatalf("expected cancellation note:\n%s", rendered)
	}
}
