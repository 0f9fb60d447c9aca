package exercise

import "time"

// RunLimits describes optional resource boundaries for a single exercise
// execution.
//
// A zero value RunLimits imposes no additional restrictions.
type RunLimits struct {
	// TimeLimit caps how long one execution is allowed to run. Zero means
	// no limit.
	TimeLimit time.Duration
	// MemoryLimitBytes caps memory usage in bytes. Zero means no limit.
	MemoryLimitBytes int64
}
