package model

import "github.com/kilianp07/tripduration/core/factory"

var registry = factory.NewRegistry[Regressor]()

// Register adds a regressor factory identified by name.
func Register(name string, f factory.Factory[Regressor]) error {
	return registry.Register(name, f)
}

// New builds a regressor from its module configuration.
func New(cfg factory.ModuleConfig) (Regressor, error) {
	return registry.Create(cfg)
}

type forestConf struct {
	NEstimators     int   `json:"n_estimators"`
	MaxDepth        int   `json:"max_depth"`
	MinSamplesSplit int   `json:"min_samples_split"`
	MinSamplesLeaf  int   `json:"min_samples_leaf"`
	Bootstrap       *bool `json:"bootstrap"`
	RandomState     int64 `json:"random_state"`
}

func init() {
	_ = Register("linear_regression", func(map[string]any) (Regressor, error) {
		return NewLinearRegression(), nil
	})
	_ = Register("random_forest", func(conf map[string]any) (Regressor, error) {
		c := forestConf{NEstimators: 10, MaxDepth: 5, MinSamplesSplit: 2, MinSamplesLeaf: 1, RandomState: 42}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		opts := []RandomForestOption{
			WithNEstimators(c.NEstimators),
			WithMaxDepth(c.MaxDepth),
			WithMinSamplesSplit(c.MinSamplesSplit),
			WithMinSamplesLeaf(c.MinSamplesLeaf),
			WithRandomState(c.RandomState),
		}
		if c.Bootstrap != nil {
			opts = append(opts, WithBootstrap(*c.Bootstrap))
		}
		return NewRandomForest(opts...), nil
	})
}
