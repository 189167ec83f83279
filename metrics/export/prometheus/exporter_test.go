package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goStudio "github.com/MrEthical07/goStudio"
	"github.com/MrEthical07/goStudio/internal/apitest"
)

type fakeSource struct {
	snapshot goStudio.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() goStudio.MetricsSnapshot { return f.snapshot }
func (f fakeSource) DroppedEvents() uint64                    { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goStudio.MetricsSnapshot{
			Counters:   map[goStudio.MetricID]uint64{},
			Histograms: map[goStudio.MetricID][]uint64{},
		},
		dropped: 0,
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderDeterministicIncludesCounterAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goStudio.MetricsSnapshot{
			Counters: map[goStudio.MetricID]uint64{
				goStudio.MetricLoginSuccess: 7,
			},
			Histograms: map[goStudio.MetricID][]uint64{
				goStudio.MetricRequestLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	if !strings.Contains(out, "gostudio_login_success_total 7") {
		t.Fatalf("expected login_success counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "gostudio_request_latency_seconds_bucket{le=\"0.005\"} 1") {
		t.Fatalf("expected first histogram bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "gostudio_request_latency_seconds_bucket{le=\"+Inf\"} 36") {
		t.Fatalf("expected +Inf cumulative bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "gostudio_events_dropped_total 2") {
		t.Fatalf("expected events dropped counter in output, got:\n%s", out)
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goStudio.MetricsSnapshot{
			Counters:   map[goStudio.MetricID]uint64{goStudio.MetricLoginSuccess: 1},
			Histograms: map[goStudio.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRenderFromClient(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.AddUser("alice", "alice@x", "pw", "")

	cfg := goStudio.DefaultConfig()
	cfg.API.BaseURL = srv.BaseURL()
	client, err := goStudio.New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer client.Close()
	client.Login(context.Background(), goStudio.Credentials{Username: "alice", Password: "pw"})

	out := NewPrometheusExporter(client).Render()
	for _, want := range []string{
		"gostudio_login_success_total 1",
		"gostudio_api_request_total 1",
		"gostudio_request_latency_seconds_count 1",
		"gostudio_events_dropped_total 0",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goStudio.MetricsSnapshot{
			Counters: map[goStudio.MetricID]uint64{
				goStudio.MetricLoginSuccess:                1000,
				goStudio.MetricLoginFailure:                40,
				goStudio.MetricForcedLogout:                3,
				goStudio.MetricAPIRequest:                  5000,
				goStudio.MetricAPIFailure:                  20,
			},
			Histograms: map[goStudio.MetricID][]uint64{
				goStudio.MetricRequestLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
		dropped: 0,
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
