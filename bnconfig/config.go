// Package bnconfig loads the CLI's configuration from layered sources:
// built-in defaults, an optional YAML file, then environment variables,
// each layer overriding the last.
package bnconfig

import (
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config holds every tunable the learn orchestrator and its CLI need.
type Config struct {
	Dataset    DatasetConfig    `koanf:"dataset"`
	Learn      LearnConfig      `koanf:"learn"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// DatasetConfig describes where and how the input CSV is read.
type DatasetConfig struct {
	Path     string `koanf:"path"`
	Encoding string `koanf:"encoding"`
}

// LearnConfig holds structure-learning defaults.
type LearnConfig struct {
	Alpha       float64 `koanf:"alpha"`
	Metric      string  `koanf:"metric"`
	Algorithm   string  `koanf:"algorithm"`
	MaxParents  int     `koanf:"max_parents"`
	VisitSpace  float64 `koanf:"visit_space"`
	PCAlpha     float64 `koanf:"pc_alpha"`
}

// LoggingConfig controls bnlog's zerolog setup.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ConfigPathEnvVar names the environment variable that overrides the
// config file search path.
const ConfigPathEnvVar = "BNLEARN_CONFIG_PATH"

// defaultConfigPaths lists the paths searched in order for a config file
// when ConfigPathEnvVar is unset.
var defaultConfigPaths = []string{
	"bnlearn.yaml",
	"bnlearn.yml",
	"/etc/bnlearn/config.yaml",
}

func defaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Encoding: "utf-8",
		},
		Learn: LearnConfig{
			Alpha:      1.0,
			Metric:     "K2",
			Algorithm:  "K2",
			MaxParents: 2,
			VisitSpace: 0.1,
			PCAlpha:    0.05,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables (BNLEARN_ prefix), in that precedence order
// (environment wins).
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, errors.Wrap(err, "bnconfig: loading defaults")
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "bnconfig: loading config file %s", path)
		}
	}

	envProvider := env.Provider("BNLEARN_", ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(err, "bnconfig: loading environment variables")
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "bnconfig: unmarshaling configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "bnconfig: invalid configuration")
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range defaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps BNLEARN_LEARN_MAX_PARENTS -> learn.max_parents.
func envTransform(key string) string {
	key = strings.TrimPrefix(key, "BNLEARN_")
	key = strings.ToLower(key)
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return key
	}
	return parts[0] + "." + parts[1]
}

var validMetrics = map[string]bool{"entropy": true, "aic": true, "mdl": true, "k2": true}
var validAlgorithms = map[string]bool{"k2": true, "greedy": true, "pc": true}

// Validate aggregates every configuration violation instead of failing on
// the first, the way a user correcting a config file wants to see all of
// them at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Learn.Alpha < 0 {
		result = multierror.Append(result, errors.New("learn.alpha must be >= 0"))
	}
	if !validMetrics[strings.ToLower(c.Learn.Metric)] {
		result = multierror.Append(result, errors.Errorf("learn.metric %q is not one of entropy, aic, mdl, k2", c.Learn.Metric))
	}
	if !validAlgorithms[strings.ToLower(c.Learn.Algorithm)] {
		result = multierror.Append(result, errors.Errorf("learn.algorithm %q is not one of k2, greedy, pc", c.Learn.Algorithm))
	}
	if strings.EqualFold(c.Learn.Metric, "k2") && !strings.EqualFold(c.Learn.Algorithm, "k2") {
		result = multierror.Append(result, errors.New("learn.metric k2 is only valid with learn.algorithm k2"))
	}
	if c.Learn.MaxParents < 0 {
		result = multierror.Append(result, errors.New("learn.max_parents must be >= 0"))
	}
	if c.Learn.VisitSpace <= 0 || c.Learn.VisitSpace > 1 {
		result = multierror.Append(result, errors.New("learn.visit_space must be in (0, 1]"))
	}
	if c.Learn.PCAlpha <= 0 || c.Learn.PCAlpha >= 1 {
		result = multierror.Append(result, errors.New("learn.pc_alpha must be in (0, 1)"))
	}

	return result.ErrorOrNil()
}
