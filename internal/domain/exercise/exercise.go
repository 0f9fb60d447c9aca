package exercise

// Language identifies the toolchain an exercise is written for.
type Language string

const (
	LanguageGo     Language = "go"
	LanguagePython Language = "python"
)

// Exercise describes a single discovered exercise file.
//
// The value is immutable once produced by the registry: the runner and the
// reporter only ever read it.
type Exercise struct {
	// ID is the exercise identifier: the path relative to the exercise
	// root, slash-separated, with the file extension stripped.
	ID string
	// Path is the absolute location of the source file.
	Path string
	// Language selects the runtime module responsible for the exercise.
	Language Language
	// Source is the full file contents as read at discovery time.
	Source string
	// Check is the expected-outcome contract parsed from the file.
	Check Check
	// Limits optionally overrides the engine's default resource limits.
	Limits RunLimits
}
