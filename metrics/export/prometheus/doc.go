// Package prometheus renders goStudio client metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [goStudio.Client] and exposes an
// [http.Handler]. Counter names are prefixed gostudio_*_total; the single
// histogram is gostudio_request_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate client state.
package prometheus
