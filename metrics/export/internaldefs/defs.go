package internaldefs

import (
	goStudio "github.com/MrEthical07/goStudio"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   goStudio.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   goStudio.MetricID
	Name string
	Help string
}

// CounterDefs lists every counter in exposition order.
var CounterDefs = []CounterDef{
	{ID: goStudio.MetricLoginSuccess, Name: "gostudio_login_success_total", Help: "Logins that established a session."},
	{ID: goStudio.MetricLoginFailure, Name: "gostudio_login_failure_total", Help: "Failed login attempts."},
	{ID: goStudio.MetricRegisterSuccess, Name: "gostudio_register_success_total", Help: "Registrations that established a session."},
	{ID: goStudio.MetricRegisterFailure, Name: "gostudio_register_failure_total", Help: "Failed registration attempts."},
	{ID: goStudio.MetricLogout, Name: "gostudio_logout_total", Help: "Explicit logouts of an authenticated session."},
	{ID: goStudio.MetricForcedLogout, Name: "gostudio_forced_logout_total", Help: "Sessions destroyed by a 401 response."},
	{ID: goStudio.MetricSessionRestored, Name: "gostudio_session_restored_total", Help: "Sessions restored from durable storage."},
	{ID: goStudio.MetricGuardRedirect, Name: "gostudio_guard_redirect_total", Help: "Redirects taken by the route guard."},
	{ID: goStudio.MetricAPIRequest, Name: "gostudio_api_request_total", Help: "Requests sent to the API."},
	{ID: goStudio.MetricAPIFailure, Name: "gostudio_api_failure_total", Help: "Requests without a response or with status >= 400."},
}

// HistogramDefs lists every histogram.
var HistogramDefs = []HistogramDef{
	{ID: goStudio.MetricRequestLatency, Name: "gostudio_request_latency_seconds", Help: "API round-trip latency histogram."},
}

// HistogramBounds are the upper bounds of the eight latency buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix are HistogramBounds spelled for instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, zero-filling missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
