package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// counterValue はGather結果から指定メトリクス・ラベルのカウンタ値を取り出す。
func counterValue(t *testing.T, reg *prometheus.Registry, name, labelValue string) float64 {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelValue == "" && len(m.GetLabel()) == 0 {
				return m.GetCounter().GetValue()
			}
			for _, l := range m.GetLabel() {
				if l.GetValue() == labelValue {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s (label %q) not found", name, labelValue)
	return 0
}

func TestRecordAPIStatus_IncrementsCounterByStatusCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAPIStatus(200)
	c.RecordAPIStatus(200)
	c.RecordAPIStatus(404)

	if got := counterValue(t, reg, "blogfront_api_status_total", "200"); got != 2 {
		t.Errorf("api_status_total{200} = %v, want 2", got)
	}
	if got := counterValue(t, reg, "blogfront_api_status_total", "404"); got != 1 {
		t.Errorf("api_status_total{404} = %v, want 1", got)
	}
}

func TestRecordRenderSuccessAndFailure_ByKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRenderSuccess(RenderKindList)
	c.RecordRenderSuccess(RenderKindList)
	c.RecordRenderFailure(RenderKindDetail)

	if got := counterValue(t, reg, "blogfront_render_success_total", RenderKindList); got != 2 {
		t.Errorf("render_success_total{list} = %v, want 2", got)
	}
	if got := counterValue(t, reg, "blogfront_render_fail_total", RenderKindDetail); got != 1 {
		t.Errorf("render_fail_total{detail} = %v, want 1", got)
	}
}

func TestRecordAPILatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAPILatency(150 * time.Millisecond)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "blogfront_api_latency_seconds" {
			found = true
			if count := mf.GetMetric()[0].GetHistogram().GetSampleCount(); count != 1 {
				t.Errorf("latency sample count = %d, want 1", count)
			}
		}
	}
	if !found {
		t.Error("blogfront_api_latency_seconds metric not found")
	}
}

// TestSetupMetricsRoute_ServesMetrics は/metricsパスでメトリクスが返ることを検証する。
func TestSetupMetricsRoute_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordAPIStatus(200)

	handler := SetupMetricsRoute(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "blogfront_api_status_total") {
		t.Errorf("メトリクス出力にblogfront_api_status_totalが含まれるべき: %s", body)
	}
}

func TestSetupMetricsRoute_UnknownPathReturns404(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = NewCollector(reg)

	handler := SetupMetricsRoute(reg)

	req := httptest.NewRequest(http.MethodGet, "/other", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}
