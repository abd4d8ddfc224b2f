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

// TestObserveUpstream_RecordsCounterAndLatency はアップストリーム呼び出しが
// カウンタとヒストグラムの両方に記録されることを検証する。
func TestObserveUpstream_RecordsCounterAndLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveUpstream("storefront", 200, 100*time.Millisecond)
	c.ObserveUpstream("storefront", 200, 2*time.Second)
	c.ObserveUpstream("customer", 401, 50*time.Millisecond)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	var foundRequests, foundLatency bool
	for _, mf := range metrics {
		switch mf.GetName() {
		case "shopfront_upstream_requests_total":
			foundRequests = true
			if len(mf.GetMetric()) != 2 {
				t.Fatalf("expected 2 label combinations, got %d", len(mf.GetMetric()))
			}
			for _, m := range mf.GetMetric() {
				labels := map[string]string{}
				for _, l := range m.GetLabel() {
					labels[l.GetName()] = l.GetValue()
				}
				val := m.GetCounter().GetValue()
				switch labels["api"] {
				case "storefront":
					if labels["status"] != "200" || val != 2 {
						t.Errorf("storefront counter = %v (status %s), want 2 (status 200)", val, labels["status"])
					}
				case "customer":
					if labels["status"] != "401" || val != 1 {
						t.Errorf("customer counter = %v (status %s), want 1 (status 401)", val, labels["status"])
					}
				default:
					t.Errorf("unexpected api label: %s", labels["api"])
				}
			}
		case "shopfront_upstream_latency_seconds":
			foundLatency = true
			for _, m := range mf.GetMetric() {
				h := m.GetHistogram()
				if m.GetLabel()[0].GetValue() == "storefront" {
					if h.GetSampleCount() != 2 {
						t.Errorf("storefront sample_count = %d, want 2", h.GetSampleCount())
					}
					// 合計は0.1 + 2.0 = 2.1秒
					if h.GetSampleSum() < 2.0 || h.GetSampleSum() > 2.2 {
						t.Errorf("storefront sample_sum = %v, want ~2.1", h.GetSampleSum())
					}
				}
			}
		}
	}
	if !foundRequests {
		t.Error("shopfront_upstream_requests_total metric not found")
	}
	if !foundLatency {
		t.Error("shopfront_upstream_latency_seconds metric not found")
	}
}

// TestObserveCartAction_IncrementsCounterWithLabels はカート操作カウンタが
// 操作種別・結果のラベル付きで増加することを検証する。
func TestObserveCartAction_IncrementsCounterWithLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveCartAction("add", "success")
	c.ObserveCartAction("add", "success")
	c.ObserveCartAction("add", "error")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "shopfront_cart_actions_total" {
			found = true
			if len(mf.GetMetric()) != 2 {
				t.Fatalf("expected 2 label combinations, got %d", len(mf.GetMetric()))
			}
			for _, m := range mf.GetMetric() {
				labels := map[string]string{}
				for _, l := range m.GetLabel() {
					labels[l.GetName()] = l.GetValue()
				}
				val := m.GetCounter().GetValue()
				switch labels["result"] {
				case "success":
					if val != 2 {
						t.Errorf("cart_actions{result=success} = %v, want 2", val)
					}
				case "error":
					if val != 1 {
						t.Errorf("cart_actions{result=error} = %v, want 1", val)
					}
				}
			}
		}
	}
	if !found {
		t.Error("shopfront_cart_actions_total metric not found")
	}
}

// TestRecordAuthLogin_IncrementsCounter はログイン試行カウンタが増加することを検証する。
func TestRecordAuthLogin_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthLogin("success")
	c.RecordAuthLogin("failure")
	c.RecordAuthLogin("failure")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "shopfront_auth_logins_total" {
			found = true
			for _, m := range mf.GetMetric() {
				label := m.GetLabel()[0].GetValue()
				val := m.GetCounter().GetValue()
				switch label {
				case "success":
					if val != 1 {
						t.Errorf("auth_logins{result=success} = %v, want 1", val)
					}
				case "failure":
					if val != 2 {
						t.Errorf("auth_logins{result=failure} = %v, want 2", val)
					}
				}
			}
		}
	}
	if !found {
		t.Error("shopfront_auth_logins_total metric not found")
	}
}

// TestMetricsHandler_ReturnsPrometheusFormat は/metricsエンドポイントがPrometheus形式で返すことを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveUpstream("storefront", 200, 500*time.Millisecond)
	c.ObserveCartAction("add", "success")
	c.RecordAuthLogin("success")

	handler := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	expectedMetrics := []string{
		"shopfront_upstream_requests_total",
		"shopfront_upstream_latency_seconds",
		"shopfront_cart_actions_total",
		"shopfront_auth_logins_total",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(bodyStr, metric) {
			t.Errorf("response body does not contain %q", metric)
		}
	}
}

// TestCollector_ImplementsMetricsCollectorInterface はCollectorがMetricsCollectorインターフェースを実装することを検証する。
func TestCollector_ImplementsMetricsCollectorInterface(t *testing.T) {
	reg := prometheus.NewRegistry()
	var _ MetricsCollector = NewCollector(reg)
}
