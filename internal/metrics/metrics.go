// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ゲートウェイやカート操作から利用する。
type MetricsCollector interface {
	ObserveUpstream(api string, status int, duration time.Duration)
	ObserveCartAction(action, result string)
	RecordAuthLogin(result string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	cartActions      *prometheus.CounterVec
	authLogins       *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopfront_upstream_requests_total",
			Help: "アップストリームAPI呼び出しの合計数（API種別・ステータス別）",
		}, []string{"api", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopfront_upstream_latency_seconds",
			Help:    "アップストリームAPI呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"api"}),
		cartActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopfront_cart_actions_total",
			Help: "カート操作の合計数（操作種別・結果別）",
		}, []string{"action", "result"}),
		authLogins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopfront_auth_logins_total",
			Help: "ログイン試行の合計数（結果別）",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.upstreamRequests,
		c.upstreamLatency,
		c.cartActions,
		c.authLogins,
	)

	return c
}

// ObserveUpstream はアップストリーム呼び出しの結果とレイテンシを記録する。
// ネットワークエラーで応答が無い場合はstatus=0で記録される。
func (c *Collector) ObserveUpstream(api string, status int, duration time.Duration) {
	c.upstreamRequests.WithLabelValues(api, strconv.Itoa(status)).Inc()
	c.upstreamLatency.WithLabelValues(api).Observe(duration.Seconds())
}

// ObserveCartAction はカート操作の結果を記録する。
func (c *Collector) ObserveCartAction(action, result string) {
	c.cartActions.WithLabelValues(action, result).Inc()
}

// RecordAuthLogin はログイン試行の結果を記録する。
func (c *Collector) RecordAuthLogin(result string) {
	c.authLogins.WithLabelValues(result).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
