package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"excheck/internal/domain/exercise"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, engineDocker, cfg.Engine)
	assert.Equal(t, defaultMaxParallel, cfg.MaxParallel)
	assert.Equal(t, defaultTimeLimit, time.Duration(cfg.TimeLimit))
	assert.Equal(t, defaultGoImage, cfg.Languages[string(exercise.LanguageGo)].Image)
	assert.Equal(t, defaultGoRunImage, cfg.Languages[string(exercise.LanguageGo)].RunImage)
	assert.Equal(t, defaultPythonImage, cfg.Languages[string(exercise.LanguagePython)].Image)
	assert.Empty(t, cfg.Publish.Brokers)
}

func TestLoadConfigReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine: local
max_parallel: 8
time_limit: 30s
memory_limit_bytes: 67108864
local:
  go_binary: /usr/local/go/bin/go
publish:
  brokers: ["kafka-1:9092", "kafka-2:9092"]
  topic: results
`), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, engineLocal, cfg.Engine)
	assert.Equal(t, 8, cfg.MaxParallel)
	assert.Equal(t, 30*time.Second, time.Duration(cfg.TimeLimit))
	assert.Equal(t, int64(67108864), cfg.MemoryLimitBytes)
	assert.Equal(t, "/usr/local/go/bin/go", cfg.Local.GoBinary)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Publish.Brokers)
	assert.Equal(t, "results", cfg.Publish.Topic)

	// Defaults not mentioned in the file survive the merge.
	assert.Equal(t, defaultGoImage, cfg.Languages[string(exercise.LanguageGo)].Image)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: docker\ntime_limit: 5s\n"), 0o644))

	t.Setenv("EXCHECK_ENGINE", "local")
	t.Setenv("EXCHECK_TIME_LIMIT", "20s")
	t.Setenv("EXCHECK_MAX_PARALLEL", "2")
	t.Setenv("EXCHECK_KAFKA_BROKERS", "localhost:9092, localhost:9093")
	t.Setenv("EXCHECK_KAFKA_TOPIC", "classroom")

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, engineLocal, cfg.Engine)
	assert.Equal(t, 20*time.Second, time.Duration(cfg.TimeLimit))
	assert.Equal(t, 2, cfg.MaxParallel)
	assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, cfg.Publish.Brokers)
	assert.Equal(t, "classroom", cfg.Publish.Topic)
}

func TestLoadConfigRejectsUnknownEngine(t *testing.T) {
	t.Setenv("EXCHECK_ENGINE", "podman")

	_, err := loadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown engine")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("time_limit: fast\n"), 0o644))

	_, err := loadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse duration")
}

func TestDefaultLimits(t *testing.T) {
	cfg := defaultConfig()
	cfg.TimeLimit = duration(3 * time.Second)
	cfg.MemoryLimitBytes = 1 << 20

	limits := cfg.defaultLimits()
	assert.Equal(t, 3*time.Second, limits.TimeLimit)
	assert.Equal(t, int64(1<<20), limits.MemoryLimitBytes)
}

func TestDockerConfigMapsLanguages(t *testing.T) {
	cfg := defaultConfig()
	dcfg := cfg.dockerConfig()

	goCfg, ok := dcfg.Languages[exercise.LanguageGo]
	require.True(t, ok)
	assert.Equal(t, defaultGoImage, goCfg.Image)
	assert.Equal(t, defaultGoRunImage, goCfg.RunImage)
	assert.Equal(t, defaultWorkdir, goCfg.Workdir)
	assert.Equal(t, defaultTimeLimit, dcfg.DefaultLimits.TimeLimit)
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("EXCHECK_TEST_KEY", "set")
	assert.Equal(t, "set", envOrDefault("EXCHECK_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", envOrDefault("EXCHECK_TEST_KEY_MISSING", "fallback"))
}

func TestParseBrokerList(t *testing.T) {
	assert.Equal(t, []string{"a:9092"}, parseBrokerList("a:9092"))
	assert.Equal(t, []string{"a:9092", "b:9092"}, parseBrokerList(" a:9092 ,b:9092, "))
	assert.Empty(t, parseBrokerList(" , "))
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 3, parsePositiveInt("3", 1))
	assert.Equal(t, 1, parsePositiveInt("", 1))
	assert.Equal(t, 1, parsePositiveInt("-2", 1))
	assert.Equal(t, 1, parsePositiveInt("many", 1))

	assert.Equal(t, 5*time.Second, parseDuration("5s", time.Second))
	assert.Equal(t, time.Second, parseDuration("", time.Second))
	assert.Equal(t, time.Second, parseDuration("soon", time.Second))

	assert.Equal(t, int64(1024), parseBytes("1024", 0))
	assert.Equal(t, int64(7), parseBytes("", 7))
	assert.Equal(t, int64(7), parseBytes("-1", 7))
}

func TestExerciseRoot(t *testing.T) {
	assert.Equal(t, ".", exerciseRoot(nil))
	assert.Equal(t, "exercises", exerciseRoot([]string{"exercises"}))
}
