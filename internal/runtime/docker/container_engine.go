package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/docker/docker/api/types/container"
	typesimage "github.com/docker/docker/api/types/image"

	"excheck/internal/domain/exercise"
)

// containerEngine owns the low level container lifecycle shared by all
// language strategies: create, copy files in, start, wait with a deadline,
// collect logs, tear down.
type containerEngine struct {
	cli           dockerClient
	defaultLimits exercise.RunLimits
}

func newContainerEngine(cli dockerClient, defaultLimits exercise.RunLimits) *containerEngine {
	return &containerEngine{
		cli:           cli,
		defaultLimits: normalizeLimits(defaultLimits),
	}
}

func (c *containerEngine) pullImage(ctx context.Context, ref string) error {
	reader, err := c.cli.ImagePull(ctx, ref, typesimage.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull image %s: %w", ref, err)
	}
	defer reader.Close()
	if _, err = io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("consume pull output for %s: %w", ref, err)
	}
	return nil
}

func (c *containerEngine) effectiveLimits(request exercise.RunLimits) exercise.RunLimits {
	effective := c.defaultLimits
	overrides := normalizeLimits(request)

	if overrides.TimeLimit > 0 {
		effective.TimeLimit = overrides.TimeLimit
	}
	if overrides.MemoryLimitBytes > 0 {
		effective.MemoryLimitBytes = overrides.MemoryLimitBytes
	}

	return effective
}

// runProgram executes a single command inside a fresh container and captures
// its outcome. The returned result leaves Status empty when the program ran
// to completion within its limits; a timeout or memory kill is classified
// here because only this layer can observe it.
func (c *containerEngine) runProgram(
	ctx context.Context,
	image string,
	workdir string,
	limits exercise.RunLimits,
	command []string,
	files []fileSpec,
) (*exercise.Result, error) {
	effectiveLimits := c.effectiveLimits(limits)

	containerID, cleanup, err := c.createContainer(ctx, image, workdir, effectiveLimits, command)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := c.copyFiles(ctx, containerID, workdir, files); err != nil {
		return nil, fmt.Errorf("copy files: %w", err)
	}

	start := time.Now()
	if err := c.cli.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}

	waitCtx := ctx
	var cancel context.CancelFunc
	if effectiveLimits.TimeLimit > 0 {
		waitCtx, cancel = context.WithTimeout(ctx, effectiveLimits.TimeLimit)
	}
	status, err := c.waitForExit(waitCtx, containerID)
	if cancel != nil {
		cancel()
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && effectiveLimits.TimeLimit > 0 && ctx.Err() == nil {
			return c.handleTimeLimit(containerID, effectiveLimits.TimeLimit, start)
		}
		return nil, err
	}

	inspectCtx := ctx
	if inspectCtx.Err() != nil {
		inspectCtx = context.Background()
	}
	inspect, err := c.cli.ContainerInspect(inspectCtx, containerID)
	if err != nil {
		return nil, fmt.Errorf("inspect container: %w", err)
	}

	logCtx := ctx
	if logCtx.Err() != nil {
		logCtx = context.Background()
	}
	stdout, stderr, err := c.fetchLogs(logCtx, containerID)
	if err != nil {
		return nil, fmt.Errorf("fetch logs: %w", err)
	}

	result := &exercise.Result{
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: status.StatusCode,
		Duration: time.Since(start),
	}

	if inspect.State != nil && inspect.State.OOMKilled {
		result.Status = exercise.StatusFailed
		result.Detail = "memory limit exceeded"
	}

	return result, nil
}

func (c *containerEngine) createContainer(ctx context.Context, image, workdir string, limits exercise.RunLimits, cmd []string) (string, func(), error) {
	hostConfig := &container.HostConfig{
		Resources: container.Resources{
			NanoCPUs: 1_000_000_000,
		},
		NetworkMode: "none",
	}
	if limits.MemoryLimitBytes > 0 {
		hostConfig.Resources.Memory = limits.MemoryLimitBytes
		hostConfig.Resources.MemorySwap = limits.MemoryLimitBytes
	}

	resp, err := c.cli.ContainerCreate(
		ctx,
		&container.Config{
			Image:        image,
			Cmd:          cmd,
			AttachStdout: true,
			AttachStderr: true,
			WorkingDir:   workdir,
		},
		hostConfig,
		nil,
		nil,
		"",
	)
	if err != nil {
		return "", nil, fmt.Errorf("create container: %w", err)
	}

	cleanup := func() {
		_ = c.cli.ContainerRemove(context.Background(), resp.ID, container.RemoveOptions{Force: true})
	}

	return resp.ID, cleanup, nil
}
