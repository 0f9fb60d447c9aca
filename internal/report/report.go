// Package report aggregates verification results into the end-of-run
// summary.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"excheck/internal/domain/exercise"
)

// Summary is a pure aggregation of one run's results. Building it has no
// side effects and the same input sequence always yields the same summary,
// regardless of the order results completed in.
type Summary struct {
	results    []exercise.Result
	counts     map[exercise.Status]int
	discovered int
	malformed  int
	incomplete bool
}

// NewSummary aggregates the full result sequence of one run. discovered is
// the number of recognized exercise files, malformed how many of those were
// skipped, and incomplete marks a run that was cancelled before every
// exercise was dispatched.
func NewSummary(results []exercise.Result, discovered, malformed int, incomplete bool) Summary {
	sorted := make([]exercise.Result, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	counts := make(map[exercise.Status]int, 4)
	for _, result := range sorted {
		counts[result.Status]++
	}

	return Summary{
		results:    sorted,
		counts:     counts,
		discovered: discovered,
		malformed:  malformed,
		incomplete: incomplete,
	}
}

// Count reports how many results carry the given status.
func (s Summary) Count(status exercise.Status) int {
	return s.counts[status]
}

// Executed reports how many exercises produced a result.
func (s Summary) Executed() int {
	return len(s.results)
}

// AllPassed reports whether every executed exercise passed and the run
// completed. An empty run counts as passed.
func (s Summary) AllPassed() bool {
	return !s.incomplete && s.Count(exercise.StatusPassed) == len(s.results)
}

// ExitCode is 0 only for a complete run in which every exercise passed.
func (s Summary) ExitCode() int {
	if s.AllPassed() {
		return 0
	}
	return 1
}

// Failures returns every non-passed result, ordered by identifier.
func (s Summary) Failures() []exercise.Result {
	var failures []exercise.Result
	for _, result := range s.results {
		if !result.Status.Passed() {
			failures = append(failures, result)
		}
	}
	return failures
}

var (
	passedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	timeoutStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	compileStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

func styleFor(status exercise.Status) lipgloss.Style {
	switch status {
	case exercise.StatusPassed:
		return passedStyle
	case exercise.StatusTimeout:
		return timeoutStyle
	case exercise.StatusCompileError:
		return compileStyle
	default:
		return failedStyle
	}
}

// Render produces the user-facing summary: one line per non-passed
// exercise with its diagnostic detail, then the per-status counts.
func (s Summary) Render() string {
	var sb strings.Builder

	for _, failure := range s.Failures() {
		style := styleFor(failure.Status)
		fmt.Fprintf(&sb, "%s %s\n", style.Render(fmt.Sprintf("[%s]", failure.Status)), failure.ID)
		if detail := strings.TrimRight(failure.Detail, "\n"); detail != "" {
			for _, line := range strings.Split(detail, "\n") {
				fmt.Fprintf(&sb, "    %s\n", line)
			}
		}
	}
	if len(s.Failures()) > 0 {
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "%s  %d passed, %d failed, %d timed out, %d compile error(s)",
		statusWord(s),
		s.Count(exercise.StatusPassed),
		s.Count(exercise.StatusFailed),
		s.Count(exercise.StatusTimeout),
		s.Count(exercise.StatusCompileError),
	)
	fmt.Fprintf(&sb, " %s\n", dimStyle.Render(fmt.Sprintf("(%d of %d files run)", len(s.results), s.discovered)))

	if s.malformed > 0 {
		fmt.Fprintf(&sb, "%d malformed file(s) skipped\n", s.malformed)
	}
	if s.incomplete {
		sb.WriteString("run cancelled before all exercises were dispatched\n")
	}

	return sb.String()
}

func statusWord(s Summary) string {
	if s.AllPassed() {
		return passedStyle.Render("PASS")
	}
	return failedStyle.Render("FAIL")
}
