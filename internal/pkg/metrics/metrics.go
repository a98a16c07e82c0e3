package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 一括取り込みされたレコード数（entity: item/event, format: json/csv）
	IngestedRecordsTotal *prometheus.CounterVec

	// 拒否された一括取り込みバッチ数（entity, reason: empty/malformed/item_mismatch/invalid/error）
	RejectedBatchesTotal *prometheus.CounterVec

	// 統計計算の実行数（verdict: "may be biased" / "no conclusion possible"）
	StatisticsTotal *prometheus.CounterVec

	// 認証試行数（result: ok/malformed/unknown）
	AuthAttemptsTotal *prometheus.CounterVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		IngestedRecordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingested_records_total",
				Help: "Total number of records accepted through bulk ingestion",
			},
			[]string{"entity", "format"},
		),
		RejectedBatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rejected_batches_total",
				Help: "Total number of bulk ingestion batches rejected",
			},
			[]string{"entity", "reason"},
		),
		StatisticsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statistics_computations_total",
				Help: "Total number of statistics computations",
			},
			[]string{"verdict"},
		),
		AuthAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_attempts_total",
				Help: "Total number of API key authentication attempts",
			},
			[]string{"result"},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.IngestedRecordsTotal,
		m.RejectedBatchesTotal,
		m.StatisticsTotal,
		m.AuthAttemptsTotal,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
