package docker

import "excheck/internal/domain/exercise"

func normalizeLimits(l exercise.RunLimits) exercise.RunLimits {
	if l.TimeLimit < 0 {
		l.TimeLimit = 0
	}
	if l.MemoryLimitBytes < 0 {
		l.MemoryLimitBytes = 0
	}
	return l
}
