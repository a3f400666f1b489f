// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// レンダリング種別。RecordRenderSuccess / RecordRenderFailure のラベルに使う。
const (
	RenderKindList   = "list"
	RenderKindDetail = "detail"
	RenderKindNav    = "nav"
)

// Recorder はメトリクス収集のインターフェース。
// APIクライアントとページコントローラーから利用する。
type Recorder interface {
	RecordAPIStatus(statusCode int)
	RecordAPILatency(duration time.Duration)
	RecordRenderSuccess(kind string)
	RecordRenderFailure(kind string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	apiStatus     *prometheus.CounterVec
	apiLatency    prometheus.Histogram
	renderSuccess *prometheus.CounterVec
	renderFail    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		apiStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogfront_api_status_total",
			Help: "バックエンドAPIのHTTPステータスコード別レスポンス数",
		}, []string{"status_code"}),
		apiLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "blogfront_api_latency_seconds",
			Help:    "バックエンドAPI呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		renderSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogfront_render_success_total",
			Help: "レンダリング成功の合計数（種別別）",
		}, []string{"kind"}),
		renderFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogfront_render_fail_total",
			Help: "レンダリング失敗の合計数（種別別）",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		c.apiStatus,
		c.apiLatency,
		c.renderSuccess,
		c.renderFail,
	)

	return c
}

// RecordAPIStatus はバックエンドAPIのHTTPステータスコードを記録する。
func (c *Collector) RecordAPIStatus(statusCode int) {
	c.apiStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordAPILatency はAPI呼び出しのレイテンシを記録する。
func (c *Collector) RecordAPILatency(duration time.Duration) {
	c.apiLatency.Observe(duration.Seconds())
}

// RecordRenderSuccess はレンダリング成功を記録する。
func (c *Collector) RecordRenderSuccess(kind string) {
	c.renderSuccess.WithLabelValues(kind).Inc()
}

// RecordRenderFailure はレンダリング失敗を記録する。
func (c *Collector) RecordRenderFailure(kind string) {
	c.renderFail.WithLabelValues(kind).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", Handler(gatherer))
	return r
}

// compile-time interface check
var _ Recorder = (*Collector)(nil)
