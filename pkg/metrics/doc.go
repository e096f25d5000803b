// Package metrics exports data context telemetry to Prometheus.
//
// A Recorder satisfies datactx.Recorder and can be installed on a registry:
//
//	rec := metrics.New(metrics.WithRegistry(prometheus.NewRegistry()))
//	reg := datactx.NewRegistry(datactx.WithRecorder(rec))
//
// Every context created from reg, and every command it owns, then reports
// executions, rejections, property changes and validation failures.
package metrics
