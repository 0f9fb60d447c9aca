package docker

import (
	"context"
	"testing"

	"excheck/internal/domain/exercise"
)

func TestPythonPrepareIsImmediate(t *testing.T) {
	t.Parallel()

	client := newFakeDockerClient()
	engine := newContainerEngine(client, exercise.RunLimits{})
	runtime, err := newLanguageRuntime(exercise.LanguagePython, LanguageConfig{
		Image:   "python:3.12-alpine",
		Workdir: "/tmp",
	}, engine)
	if err != nil {
		t.Fatalf("new language runtime: %v", err)
	}

	strategy := &pythonStrategy{}
	prepared, buildResult, err := strategy.Prepare(context.Background(), runtime, exercise.Exercise{
		ID:       "03_loops/loops1",
		Language: exercise.LanguagePython,
		Source:   "print('ok')\n",
	})
	if err != nil {
		t.Fatalf("prepare returned error: %v", err)
	}
	if buildResult != nil {
		t.Fatalf("python has no compile step, got build result %+v", buildResult)
	}
	if prepared == nil {
		t.Fatalf("expected a prepared exercise")
	}
	defer prepared.Close()

	if len(client.createCalls) != 0 {
		t.Fatalf("prepare should not create containers, got %d", len(client.createCalls))
	}

	client.onCreate(func(id string) {
		client.setWaitSequence(id, waitCall{status: waitStatus(0)})
		client.setLogs(id, "ok\n", "")
	})

	result, err := prepared.Run(context.Background())
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if result.Stdout != "ok\n" {
		t.Fatalf("unexpected stdout %q", result.Stdout)
	}

	if len(client.createCalls) != 1 {
		t.Fatalf("expected one run container, got %d", len(client.createCalls))
	}
	call := client.createCalls[0]
	if call.config.Image != "python:3.12-alpine" {
		t.Fatalf("unexpected image %q", call.config.Image)
	}
	if len(call.config.Cmd) != 2 || call.config.Cmd[1] != pythonScriptFilename {
		t.Fatalf("unexpected command %v", call.config.Cmd)
	}
}
