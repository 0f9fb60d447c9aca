package exercise

// Status classifies the outcome of verifying one exercise.
type Status string

const (
	// StatusPassed means the exercise built and its check succeeded.
	StatusPassed Status = "passed"
	// StatusFailed means the exercise built but its check did not hold:
	// the output diverged or an embedded assertion tripped.
	StatusFailed Status = "failed"
	// StatusTimeout means the exercise exceeded its wall-clock limit.
	// It is reported separately from StatusFailed so an infinite loop in
	// a fix is distinguishable from a wrong answer.
	StatusTimeout Status = "timeout"
	// StatusCompileError means the exercise did not build. The compiler
	// diagnostic is carried verbatim in the result detail.
	StatusCompileError Status = "compile-error"
)

// Passed reports whether s is the passing status.
func (s Status) Passed() bool { return s == StatusPassed }
