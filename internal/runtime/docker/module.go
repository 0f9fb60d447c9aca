package docker

import (
	"context"
	"fmt"

	"excheck/internal/domain/exercise"
	runtimex "excheck/internal/runtime"
)

type languageStrategy interface {
	Prepare(ctx context.Context, lang *languageRuntime, ex exercise.Exercise) (runtimex.PreparedExercise, *exercise.Result, error)
	Close() error
}

type module struct {
	runtime  *languageRuntime
	strategy languageStrategy
}

func newModule(lang exercise.Language, cfg LanguageConfig, engine *containerEngine) (runtimex.Module, error) {
	runtime, err := newLanguageRuntime(lang, cfg, engine)
	if err != nil {
		return nil, err
	}

	strategy, err := strategyForLanguage(lang)
	if err != nil {
		return nil, err
	}

	return &module{
		runtime:  runtime,
		strategy: strategy,
	}, nil
}

func (m *module) Language() exercise.Language {
	return m.runtime.language
}

func (m *module) Prepare(ctx context.Context, ex exercise.Exercise) (runtimex.PreparedExercise, *exercise.Result, error) {
	if ex.Language != m.runtime.language {
		return nil, nil, fmt.Errorf("docker runtime: exercise language %q does not match module %q", ex.Language, m.runtime.language)
	}

	if err := m.runtime.ensureImage(ctx); err != nil {
		return nil, nil, err
	}

	return m.strategy.Prepare(ctx, m.runtime, ex)
}

func (m *module) Close() error {
	return m.strategy.Close()
}
