package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"excheck/internal/domain/exercise"
	"excheck/internal/runtime/docker"
	"excheck/internal/runtime/local"
)

const (
	engineDocker = "docker"
	engineLocal  = "local"

	defaultGoImage     = "golang:1.24-alpine"
	defaultGoRunImage  = "alpine:3.20"
	defaultPythonImage = "python:3.12-alpine"
	defaultWorkdir     = "/tmp"

	defaultMaxParallel = 4
	defaultTimeLimit   = 10 * time.Second
)

type appConfig struct {
	Engine           string                    `yaml:"engine"`
	MaxParallel      int                       `yaml:"max_parallel"`
	TimeLimit        duration                  `yaml:"time_limit"`
	MemoryLimitBytes int64                     `yaml:"memory_limit_bytes"`
	Languages        map[string]languageConfig `yaml:"languages"`
	Local            localConfig               `yaml:"local"`
	Publish          publishConfig             `yaml:"publish"`
}

// duration lets YAML carry limits in the "10s" form time.ParseDuration
// accepts.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = duration(parsed)
	return nil
}

type languageConfig struct {
	Image    string `yaml:"image"`
	RunImage string `yaml:"run_image"`
	Workdir  string `yaml:"workdir"`
}

type localConfig struct {
	GoBinary     string `yaml:"go_binary"`
	PythonBinary string `yaml:"python_binary"`
}

type publishConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

func defaultConfig() appConfig {
	return appConfig{
		Engine:      engineDocker,
		MaxParallel: defaultMaxParallel,
		TimeLimit:   duration(defaultTimeLimit),
		Languages: map[string]languageConfig{
			string(exercise.LanguageGo): {
				Image:    defaultGoImage,
				RunImage: defaultGoRunImage,
				Workdir:  defaultWorkdir,
			},
			string(exercise.LanguagePython): {
				Image:   defaultPythonImage,
				Workdir: defaultWorkdir,
			},
		},
	}
}

// loadConfig layers, lowest precedence first: built-in defaults, the YAML
// config file, environment variables, command-line flags.
func loadConfig(path string) (appConfig, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return appConfig{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return appConfig{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)
	applyFlags(&cfg)

	if cfg.Engine != engineDocker && cfg.Engine != engineLocal {
		return appConfig{}, fmt.Errorf("unknown engine %q (want %q or %q)", cfg.Engine, engineDocker, engineLocal)
	}
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = 1
	}

	return cfg, nil
}

func applyEnv(cfg *appConfig) {
	cfg.Engine = envOrDefault("EXCHECK_ENGINE", cfg.Engine)
	cfg.MaxParallel = parsePositiveInt(os.Getenv("EXCHECK_MAX_PARALLEL"), cfg.MaxParallel)
	cfg.TimeLimit = duration(parseDuration(os.Getenv("EXCHECK_TIME_LIMIT"), time.Duration(cfg.TimeLimit)))
	cfg.MemoryLimitBytes = parseBytes(os.Getenv("EXCHECK_MEMORY_LIMIT"), cfg.MemoryLimitBytes)

	if brokers := os.Getenv("EXCHECK_KAFKA_BROKERS"); brokers != "" {
		cfg.Publish.Brokers = parseBrokerList(brokers)
	}
	cfg.Publish.Topic = envOrDefault("EXCHECK_KAFKA_TOPIC", cfg.Publish.Topic)
}

func applyFlags(cfg *appConfig) {
	if flagEngine != "" {
		cfg.Engine = flagEngine
	}
	if flagParallel > 0 {
		cfg.MaxParallel = flagParallel
	}
	if flagTime != "" {
		cfg.TimeLimit = duration(parseDuration(flagTime, time.Duration(cfg.TimeLimit)))
	}
}

func (c appConfig) defaultLimits() exercise.RunLimits {
	return exercise.RunLimits{
		TimeLimit:        time.Duration(c.TimeLimit),
		MemoryLimitBytes: c.MemoryLimitBytes,
	}
}

func (c appConfig) dockerConfig() docker.Config {
	languages := make(map[exercise.Language]docker.LanguageConfig, len(c.Languages))
	for lang, langCfg := range c.Languages {
		languages[exercise.Language(lang)] = docker.LanguageConfig{
			Image:    langCfg.Image,
			RunImage: langCfg.RunImage,
			Workdir:  langCfg.Workdir,
		}
	}
	return docker.Config{
		Languages:     languages,
		DefaultLimits: c.defaultLimits(),
	}
}

func (c appConfig) localConfig() local.Config {
	return local.Config{
		GoBinary:      c.Local.GoBinary,
		PythonBinary:  c.Local.PythonBinary,
		DefaultLimits: c.defaultLimits(),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseBrokerList(raw string) []string {
	fields := strings.Split(raw, ",")
	brokers := make([]string, 0, len(fields))
	for _, field := range fields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func parseBytes(raw string, fallback int64) int64 {
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
