package runtime

import (
	"context"

	"excheck/internal/domain/exercise"
)

// PreparedExercise represents a compiled or otherwise ready-to-run exercise
// instance.
type PreparedExercise interface {
	Run(ctx context.Context) (*exercise.Result, error)
	Close() error
}

// Engine executes exercises by delegating to language-specific modules.
//
// Prepare performs the compile step where the language has one. A non-nil
// Result returned alongside a nil PreparedExercise is the compile outcome
// itself and short-circuits the run.
type Engine interface {
	Prepare(ctx context.Context, ex exercise.Exercise) (PreparedExercise, *exercise.Result, error)
	Close() error
}

// Module provides runtime support for a specific language.
type Module interface {
	Language() exercise.Language
	Prepare(ctx context.Context, ex exercise.Exercise) (PreparedExercise, *exercise.Result, error)
	Close() error
}
