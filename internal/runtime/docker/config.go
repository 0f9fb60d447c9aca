package docker

import "excheck/internal/domain/exercise"

// Config describes how to create a Docker-backed runtime engine.
type Config struct {
	Languages     map[exercise.Language]LanguageConfig
	DefaultLimits exercise.RunLimits
}

// LanguageConfig specifies container settings for a single language.
type LanguageConfig struct {
	// Image is used for the compile step and, when RunImage is empty,
	// for execution as well.
	Image string
	// RunImage optionally runs compiled programs in a slimmer image than
	// the one carrying the toolchain.
	RunImage string
	Workdir  string
}
