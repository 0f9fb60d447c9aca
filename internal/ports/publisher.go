package ports

import (
	"context"

	"excheck/internal/domain/exercise"
)

// ResultPublisher streams per-exercise results to an external system.
type ResultPublisher interface {
	PublishResult(ctx context.Context, runID string, result exercise.Result) error
	Close() error
}
