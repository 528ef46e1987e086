// Package factory provides a small generic registry used to build pipeline
// components (regressors, metrics sinks) from configuration. A component is
// described by a type string and a map of raw settings; factories decode the
// settings into typed structs and return the concrete implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[model.Regressor]()
//	reg.Register("random_forest", func(conf map[string]any) (model.Regressor, error) {
//	    var c struct{ Trees int `json:"n_estimators"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return model.NewRandomForest(model.WithNEstimators(c.Trees)), nil
//	})
//	r, err := reg.Create(factory.ModuleConfig{Type: "random_forest", Conf: map[string]any{"n_estimators": 10}})
package factory
