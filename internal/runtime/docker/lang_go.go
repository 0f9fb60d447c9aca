package docker

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/docker/docker/api/types/container"

	"excheck/internal/domain/exercise"
	runtimex "excheck/internal/runtime"
)

// Builds are bounded separately from the exercise's own time limit so a
// slow compile never masquerades as a timed-out run.
const goBuildTimeout = 2 * time.Minute

type goStrategy struct{}

// Prepare compiles the exercise in the toolchain image and extracts the
// binary so repeated runs reuse one compile. A failed build is the compile
// outcome itself, with the compiler diagnostic carried verbatim.
func (g *goStrategy) Prepare(ctx context.Context, lang *languageRuntime, ex exercise.Exercise) (runtimex.PreparedExercise, *exercise.Result, error) {
	runLimits := lang.engine.effectiveLimits(ex.Limits)
	buildLimits := runLimits
	buildLimits.TimeLimit = 0

	buildCtx, cancel := context.WithTimeout(ctx, goBuildTimeout)
	defer cancel()

	containerID, cleanup, err := lang.engine.createContainer(
		buildCtx,
		lang.config.Image,
		lang.config.Workdir,
		buildLimits,
		[]string{"go", "build", "-o", goBinaryFilename, goSourceFilename},
	)
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	if err := lang.engine.copyFiles(buildCtx, containerID, lang.config.Workdir, []fileSpec{
		{
			Name: goSourceFilename,
			Mode: 0o644,
			Data: []byte(ex.Source),
		},
	}); err != nil {
		return nil, nil, fmt.Errorf("copy source: %w", err)
	}

	start := time.Now()
	if err := lang.engine.cli.ContainerStart(buildCtx, containerID, container.StartOptions{}); err != nil {
		return nil, nil, fmt.Errorf("start container: %w", err)
	}

	status, err := lang.engine.waitForExit(buildCtx, containerID)
	if err != nil {
		return nil, nil, err
	}

	stdout, stderr, err := lang.engine.fetchLogs(context.WithoutCancel(buildCtx), containerID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch logs: %w", err)
	}

	if status.StatusCode != 0 {
		detail := stderr
		if detail == "" {
			detail = stdout
		}
		return nil, &exercise.Result{
			Status:   exercise.StatusCompileError,
			Stdout:   stdout,
			Stderr:   stderr,
			ExitCode: status.StatusCode,
			Duration: time.Since(start),
			Detail:   detail,
		}, nil
	}

	binaryPath := path.Join(lang.config.Workdir, goBinaryFilename)
	binaryData, err := lang.engine.copyFileFromContainer(buildCtx, containerID, binaryPath)
	if err != nil {
		return nil, nil, fmt.Errorf("extract compiled binary: %w", err)
	}

	return &goPreparedExercise{
		runtime: lang,
		binary:  binaryData,
		limits:  runLimits,
	}, nil, nil
}

func (g *goStrategy) Close() error {
	return nil
}

type goPreparedExercise struct {
	runtime *languageRuntime
	binary  []byte
	limits  exercise.RunLimits
}

func (g *goPreparedExercise) Run(ctx context.Context) (*exercise.Result, error) {
	return g.runtime.engine.runProgram(
		ctx,
		g.runtime.config.RunImage,
		g.runtime.config.Workdir,
		g.limits,
		[]string{"./" + goBinaryFilename},
		[]fileSpec{
			{
				Name: goBinaryFilename,
				Mode: 0o755,
				Data: g.binary,
			},
		},
	)
}

func (g *goPreparedExercise) Close() error {
	return nil
}
