package exercise

import "time"

// Result captures the outcome of verifying a single exercise. It is created
// once per run and never mutated afterwards.
type Result struct {
	// ID references the exercise the result belongs to.
	ID       string
	Status   Status
	Stdout   string
	Stderr   string
	ExitCode int64
	Duration time.Duration
	// Detail carries the diagnostic a learner needs to reproduce a
	// non-passing outcome: the compiler output verbatim, the output
	// mismatch, the assertion message, or a timeout note.
	Detail string
}
