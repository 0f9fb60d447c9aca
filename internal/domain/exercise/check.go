package exercise

// CheckKind distinguishes the two supported expected-outcome contracts.
type CheckKind string

const (
	// KindOutput passes when the program exits cleanly and its stdout
	// matches the expected text exactly.
	KindOutput CheckKind = "output"
	// KindAssert passes when the program's embedded checks let it exit
	// with status zero.
	KindAssert CheckKind = "assert"
)

// Check is the expected-outcome contract of one exercise. The kinds are
// closed: a tagged value, not an interface.
type Check struct {
	Kind CheckKind
	// ExpectedOutput is only meaningful for KindOutput. It carries the
	// exact stdout text, including the trailing newline.
	ExpectedOutput string
}

// OutputCheck builds a Check that expects the given stdout text.
func OutputCheck(expected string) Check {
	return Check{Kind: KindOutput, ExpectedOutput: expected}
}

// AssertCheck builds a Check that relies on the exercise's embedded checks.
func AssertCheck() Check {
	return Check{Kind: KindAssert}
}
