package ports

import (
	"context"

	"excheck/internal/domain/exercise"
)

// ExerciseSource yields discovered exercises one at a time, ordered by
// identifier. Next returns io.EOF once the sequence is exhausted; Reset
// restarts it from the beginning.
type ExerciseSource interface {
	Next(ctx context.Context) (exercise.Exercise, error)
	Reset()
}
