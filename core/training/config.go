package training

import (
	"fmt"

	"github.com/kilianp07/tripduration/core/factory"
)

// DefaultSeed fixes the split and the forest when no seed is configured.
const DefaultSeed = 42

// Config holds the trainer settings.
type Config struct {
	Seed     int64          `json:"seed"`
	TestSize float64        `json:"test_size"`
	Forest   map[string]any `json:"forest"`
}

// SetDefaults fills unset fields. A zero seed selects DefaultSeed.
func (c *Config) SetDefaults() {
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.TestSize == 0 {
		c.TestSize = 0.2
	}
}

// Validate checks the split ratio.
func (c Config) Validate() error {
	if c.TestSize <= 0 || c.TestSize >= 1 {
		return fmt.Errorf("training: test_size must be in (0, 1), got %v", c.TestSize)
	}
	return nil
}

// Candidates returns the module configs of the models to compare, in
// selection order. The forest inherits the trainer seed unless its own
// random_state is set.
func (c Config) Candidates() []factory.ModuleConfig {
	forest := factory.ModuleConfig{Type: "random_forest", Conf: c.Forest}
	return []factory.ModuleConfig{
		{Type: "linear_regression"},
		forest.WithDefaults(map[string]any{"random_state": c.Seed}),
	}
}
