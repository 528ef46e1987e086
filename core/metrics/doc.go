// Package metrics defines the observability contract of the pipeline stages.
// Each stage reports one event per run (feature build, training, batch
// prediction) to a Sink. Concrete sinks such as the Prometheus textfile sink
// and the InfluxDB sink live in infra/metrics and register themselves with
// RegisterSink; NewSink returns a MultiSink when several are configured.
package metrics
