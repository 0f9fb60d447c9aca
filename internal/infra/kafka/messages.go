package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"excheck/internal/domain/exercise"
)

type resultEnvelope struct {
	RunID      string          `json:"run_id"`
	ExerciseID string          `json:"exercise_id"`
	Status     exercise.Status `json:"status"`
	ExitCode   int64           `json:"exit_code"`
	Stdout     string          `json:"stdout,omitempty"`
	Stderr     string          `json:"stderr,omitempty"`
	Detail     string          `json:"detail,omitempty"`
	DurationMs int64           `json:"duration_ms"`
	Timestamp  time.Time       `json:"timestamp"`
}

func encodeResult(runID string, result exercise.Result) ([]byte, error) {
	envelope := resultEnvelope{
		RunID:      runID,
		ExerciseID: result.ID,
		Status:     result.Status,
		ExitCode:   result.ExitCode,
		Stdout:     result.Stdout,
		Stderr:     result.Stderr,
		Detail:     result.Detail,
		DurationMs: result.Duration.Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	return payload, nil
}
