package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"excheck/internal/domain/exercise"
)

// ModuleRegistry wires language modules into a single Engine implementation.
type ModuleRegistry struct {
	mu      sync.RWMutex
	modules map[exercise.Language]Module
}

// NewModuleRegistry constructs a registry from the supplied modules.
func NewModuleRegistry(mods ...Module) (*ModuleRegistry, error) {
	reg := &ModuleRegistry{
		modules: make(map[exercise.Language]Module, len(mods)),
	}

	for _, module := range mods {
		if module == nil {
			return nil, fmt.Errorf("runtime module cannot be nil")
		}

		lang := module.Language()
		if lang == "" {
			return nil, fmt.Errorf("runtime module missing language identifier")
		}
		if _, exists := reg.modules[lang]; exists {
			return nil, fmt.Errorf("duplicate runtime module for language %q", lang)
		}

		reg.modules[lang] = module
	}

	if len(reg.modules) == 0 {
		return nil, fmt.Errorf("at least one runtime module must be registered")
	}

	return reg, nil
}

// Prepare dispatches the request to the module responsible for the
// exercise's language.
func (r *ModuleRegistry) Prepare(ctx context.Context, ex exercise.Exercise) (PreparedExercise, *exercise.Result, error) {
	module, err := r.moduleFor(ex.Language)
	if err != nil {
		return nil, nil, err
	}
	return module.Prepare(ctx, ex)
}

// Close releases resources held by each module.
func (r *ModuleRegistry) Close() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error
	for lang, module := range r.modules {
		if err := module.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", lang, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func (r *ModuleRegistry) moduleFor(lang exercise.Language) (Module, error) {
	r.mu.RLock()
	module, ok := r.modules[lang]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no runtime module registered for language %q", lang)
	}
	return module, nil
}
