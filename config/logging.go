package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kilianp07/tripduration/core/features"
)

// LoggingConfig defines the application log output.
type LoggingConfig struct {
	// Level is the minimum zerolog level; empty defers to LOG_LEVEL.
	Level string `json:"level"`
	// Format is "json" or "console".
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = "json"
	}
}

// Validate checks the level and format names.
func (c LoggingConfig) Validate() error {
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("unknown log format %s", c.Format)
	}
	if c.Level != "" {
		if _, err := zerolog.ParseLevel(c.Level); err != nil {
			return fmt.Errorf("unknown log level %s", c.Level)
		}
	}
	return nil
}

// FeaturesConfig tunes the feature builder.
type FeaturesConfig struct {
	BoroughEncoding string `json:"borough_encoding"`
}

// SetDefaults selects the canonical borough table.
func (c *FeaturesConfig) SetDefaults() {
	if c.BoroughEncoding == "" {
		c.BoroughEncoding = string(features.EncodingCanonical)
	}
}

// Validate checks the encoding name.
func (c FeaturesConfig) Validate() error {
	_, err := features.ParseEncoding(c.BoroughEncoding)
	return err
}

// Encoding returns the parsed borough encoding.
func (c FeaturesConfig) Encoding() features.Encoding {
	enc, err := features.ParseEncoding(c.BoroughEncoding)
	if err != nil {
		return features.EncodingCanonical
	}
	return enc
}
