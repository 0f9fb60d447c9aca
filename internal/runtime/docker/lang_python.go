package docker

import (
	"context"

	"excheck/internal/domain/exercise"
	runtimex "excheck/internal/runtime"
)

type pythonStrategy struct{}

// Prepare is trivial for Python: there is no compile step, so the exercise
// is ready to run as soon as the image is available.
func (p *pythonStrategy) Prepare(ctx context.Context, lang *languageRuntime, ex exercise.Exercise) (runtimex.PreparedExercise, *exercise.Result, error) {
	return &pythonPreparedExercise{
		runtime: lang,
		ex:      ex,
	}, nil, nil
}

func (p *pythonStrategy) Close() error {
	return nil
}

type pythonPreparedExercise struct {
	runtime *languageRuntime
	ex      exercise.Exercise
}

func (p *pythonPreparedExercise) Run(ctx context.Context) (*exercise.Result, error) {
	return p.runtime.engine.runProgram(
		ctx,
		p.runtime.config.RunImage,
		p.runtime.config.Workdir,
		p.ex.Limits,
		[]string{"python", pythonScriptFilename},
		[]fileSpec{
			{
				Name: pythonScriptFilename,
				Mode: 0o644,
				Data: []byte(p.ex.Source),
			},
		},
	)
}

func (p *pythonPreparedExercise) Close() error {
	return nil
}
