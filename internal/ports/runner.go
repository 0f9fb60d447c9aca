package ports

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

// Runner prepares and executes exercises written in various languages.
type Runner interface {
	Prepare(ctx context.Context, ex exercise.Exercise) (PreparedExercise, *exercise.Result, error)
	Close() error
}
