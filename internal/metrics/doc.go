// Package metrics records generation metrics.
//
// Components receive a Recorder and default to NoopRecorder, so nothing is
// collected unless a real recorder is injected:
//
//	gen := generator.New(opts, generator.WithRecorder(metrics.NoopRecorder{}))
//
// PrometheusRecorder keeps its metrics in a Prometheus registry. doxic is a
// one-shot command with nothing to scrape, so the registry is written once
// at the end of a run in the node-exporter textfile format (WriteTextfile).
package metrics
