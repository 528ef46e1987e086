// Package monitoring reports pipeline failures to an external error tracker.
package monitoring

import "time"

// Config selects the error tracker. An empty DSN disables reporting.
type Config struct {
	DSN         string  `json:"dsn"`
	Environment string  `json:"environment"`
	Release     string  `json:"release"`
	SampleRate  float64 `json:"sample_rate"`
}

// SetDefaults reports every error when a DSN is set.
func (c *Config) SetDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = 1
	}
}

// Monitor receives stage failures.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Flush(timeout time.Duration)
}

// NopMonitor discards every report.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Flush(time.Duration)                       {}

// OrNop returns m, or a NopMonitor when m is nil.
func OrNop(m Monitor) Monitor {
	if m == nil {
		return NopMonitor{}
	}
	return m
}
