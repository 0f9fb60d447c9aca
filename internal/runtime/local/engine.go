// Package local runs exercises with the host toolchain via os/exec. It
// mirrors the Docker engine's contract for machines where Docker is not
// available, at the cost of weaker isolation: only the wall-clock limit is
// enforced, memory limits are ignored.
package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"excheck/internal/domain/exercise"
	runtimex "excheck/internal/runtime"
)

const buildTimeout = 2 * time.Minute

// Config describes the host toolchain used by the local engine.
type Config struct {
	// GoBinary is the go tool used to build Go exercises. Defaults to "go".
	GoBinary string
	// PythonBinary interprets Python exercises. Defaults to "python3".
	PythonBinary  string
	DefaultLimits exercise.RunLimits
}

// Engine implements runtime.Engine on top of the host toolchain.
type Engine struct {
	cfg Config
}

// New constructs a local Engine.
func New(cfg Config) (*Engine, error) {
	if cfg.GoBinary == "" {
		cfg.GoBinary = "go"
	}
	if cfg.PythonBinary == "" {
		cfg.PythonBinary = "python3"
	}
	return &Engine{cfg: cfg}, nil
}

// Prepare compiles Go exercises into a temp-dir binary; Python exercises
// only need their source written out.
func (e *Engine) Prepare(ctx context.Context, ex exercise.Exercise) (runtimex.PreparedExercise, *exercise.Result, error) {
	limits := e.effectiveLimits(ex.Limits)

	switch ex.Language {
	case exercise.LanguageGo:
		return e.prepareGo(ctx, ex, limits)
	case exercise.LanguagePython:
		return e.preparePython(ex, limits)
	default:
		return nil, nil, fmt.Errorf("local runtime: unsupported language %q", ex.Language)
	}
}

// Close is a no-op; each prepared exercise owns its workspace.
func (e *Engine) Close() error {
	return nil
}

func (e *Engine) effectiveLimits(request exercise.RunLimits) exercise.RunLimits {
	effective := e.cfg.DefaultLimits
	if request.TimeLimit > 0 {
		effective.TimeLimit = request.TimeLimit
	}
	if request.MemoryLimitBytes > 0 {
		effective.MemoryLimitBytes = request.MemoryLimitBytes
	}
	return effective
}

func (e *Engine) prepareGo(ctx context.Context, ex exercise.Exercise, limits exercise.RunLimits) (runtimex.PreparedExercise, *exercise.Result, error) {
	dir, err := os.MkdirTemp("", "excheck-go-")
	if err != nil {
		return nil, nil, fmt.Errorf("create workspace: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	sourcePath := filepath.Join(dir, "main.go")
	if err := os.WriteFile(sourcePath, []byte(ex.Source), 0o644); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("write source: %w", err)
	}

	binaryPath := filepath.Join(dir, "exercise")

	buildCtx, cancel := context.WithTimeout(ctx, buildTimeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(buildCtx, e.cfg.GoBinary, "build", "-o", binaryPath, "main.go")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOFLAGS=-mod=mod", "GO111MODULE=off")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) || buildCtx.Err() != nil {
			detail := stderr.String()
			if detail == "" {
				detail = stdout.String()
			}
			cleanup()
			return nil, &exercise.Result{
				Status:   exercise.StatusCompileError,
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
				ExitCode: int64(cmd.ProcessState.ExitCode()),
				Duration: time.Since(start),
				Detail:   detail,
			}, nil
		}
		cleanup()
		return nil, nil, fmt.Errorf("run %s build: %w", e.cfg.GoBinary, err)
	}

	return &preparedCommand{
		name:    binaryPath,
		dir:     dir,
		cleanup: cleanup,
		limits:  limits,
	}, nil, nil
}

func (e *Engine) preparePython(ex exercise.Exercise, limits exercise.RunLimits) (runtimex.PreparedExercise, *exercise.Result, error) {
	dir, err := os.MkdirTemp("", "excheck-py-")
	if err != nil {
		return nil, nil, fmt.Errorf("create workspace: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	scriptPath := filepath.Join(dir, "exercise.py")
	if err := os.WriteFile(scriptPath, []byte(ex.Source), 0o644); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("write source: %w", err)
	}

	// The script is addressed relative to the workspace so interpreter
	// tracebacks never embed the random temp directory; a re-run over an
	// unmodified tree must render the same summary.
	return &preparedCommand{
		name:    e.cfg.PythonBinary,
		args:    []string{"exercise.py"},
		dir:     dir,
		cleanup: cleanup,
		limits:  limits,
	}, nil, nil
}

type preparedCommand struct {
	name    string
	args    []string
	dir     string
	cleanup func()
	limits  exercise.RunLimits
}

func (p *preparedCommand) Run(ctx context.Context) (*exercise.Result, error) {
	return runCommand(ctx, p.limits, p.dir, p.name, p.args...)
}

func (p *preparedCommand) Close() error {
	if p.cleanup != nil {
		p.cleanup()
	}
	return nil
}

// runCommand executes one program under the wall-clock limit and captures
// its outcome. A limit overrun is classified here as a timeout, never as a
// plain failure, so an infinite loop stays distinguishable.
func runCommand(ctx context.Context, limits exercise.RunLimits, dir, name string, args ...string) (*exercise.Result, error) {
	runCtx := ctx
	var cancel context.CancelFunc
	if limits.TimeLimit > 0 {
		runCtx, cancel = context.WithTimeout(ctx, limits.TimeLimit)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = 5 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return &exercise.Result{
			Status:   exercise.StatusTimeout,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: exitCode(cmd, err),
			Duration: duration,
			Detail:   fmt.Sprintf("timed out after %s", limits.TimeLimit),
		}, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("run %s: %w", name, err)
		}
	}

	return &exercise.Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(cmd, err),
		Duration: duration,
	}, nil
}

func exitCode(cmd *exec.Cmd, err error) int64 {
	if cmd.ProcessState != nil {
		return int64(cmd.ProcessState.ExitCode())
	}
	if err != nil {
		return -1
	}
	return 0
}
