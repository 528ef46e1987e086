package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/tripduration/core/metrics"
	"github.com/kilianp07/tripduration/core/monitoring"
	"github.com/kilianp07/tripduration/core/runlog"
	"github.com/kilianp07/tripduration/core/training"
)

// EnvPrefix marks the environment variables that override the file.
// TD_TRAINING__SEED=7 sets training.seed.
const EnvPrefix = "TD_"

type Config struct {
	Paths      PathsConfig       `json:"paths"`
	Features   FeaturesConfig    `json:"features"`
	Training   training.Config   `json:"training"`
	RunLog     runlog.Config     `json:"runlog"`
	Metrics    metrics.Config    `json:"metrics"`
	Monitoring monitoring.Config `json:"monitoring"`
	Logging    LoggingConfig     `json:"logging"`
}

// Load reads the optional config file at path, applies environment
// overrides, fills defaults and validates the result. An empty path means
// defaults plus environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides. The callback maps __ to the koanf
	// delimiter, so the provider splits on ".".
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Paths.SetDefaults()
	c.Features.SetDefaults()
	c.Training.SetDefaults()
	c.RunLog.SetDefaults()
	c.Monitoring.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Features.Validate(); err != nil {
		return err
	}
	if err := c.Training.Validate(); err != nil {
		return err
	}
	if err := c.RunLog.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}
