// Package metrics records docsnap operation metrics.
//
// Components receive a Recorder and default to NoopRecorder, so nothing is
// collected unless a PrometheusRecorder is injected. docsnap is a short-lived
// CLI, so the Prometheus registry is exported to a node-exporter textfile
// rather than scraped over HTTP:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	mgr := versioning.NewManager(layout, store, versioning.WithRecorder(rec))
//	...
//	_ = rec.WriteTextfile("/var/lib/node_exporter/docsnap.prom")
package metrics
