package docker

import (
	"context"
	"fmt"
	"sync"

	"excheck/internal/domain/exercise"
)

type languageRuntime struct {
	language exercise.Language
	config   LanguageConfig
	engine   *containerEngine

	pullOnce sync.Once
	pullErr  error
}

func newLanguageRuntime(lang exercise.Language, cfg LanguageConfig, engine *containerEngine) (*languageRuntime, error) {
	if cfg.Image == "" {
		return nil, fmt.Errorf("docker runtime: language %q missing image configuration", lang)
	}
	if cfg.Workdir == "" {
		cfg.Workdir = "/tmp"
	}
	if cfg.RunImage == "" {
		cfg.RunImage = cfg.Image
	}
	return &languageRuntime{
		language: lang,
		config:   cfg,
		engine:   engine,
	}, nil
}

// ensureImage pulls the build and run images exactly once per runtime.
func (l *languageRuntime) ensureImage(ctx context.Context) error {
	l.pullOnce.Do(func() {
		if err := l.engine.pullImage(ctx, l.config.Image); err != nil {
			l.pullErr = err
			return
		}
		if l.config.RunImage != l.config.Image {
			if err := l.engine.pullImage(ctx, l.config.RunImage); err != nil {
				l.pullErr = err
			}
		}
	})
	return l.pullErr
}
