package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tinybox"

// 分享链接解析结果
const (
	OutcomeResolved    = "resolved"
	OutcomeExpired     = "expired"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
)

// Metrics 持有独立的 registry，避免测试之间重复注册
// 所有方法允许在 nil 上调用
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	shareResolutions *prometheus.CounterVec
	linksCreated     *prometheus.CounterVec
	linksRenewed     prometheus.Counter
	emailsSent       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	m.shareResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_resolutions_total",
			Help:      "Share link resolutions by outcome",
		},
		[]string{"outcome"},
	)
	m.linksCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_links_created_total",
			Help:      "Share links created by kind (permanent or timed)",
		},
		[]string{"kind"},
	)
	m.linksRenewed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "share_links_renewed_total",
		Help:      "Share link renewals",
	})
	m.emailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "share_emails_sent_total",
			Help:      "Share link emails by result",
		},
		[]string{"result"},
	)

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.shareResolutions,
		m.linksCreated,
		m.linksRenewed,
		m.emailsSent,
	)
	return m
}

// Handler 暴露 /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) ShareResolved(outcome string) {
	if m == nil {
		return
	}
	m.shareResolutions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) LinkCreated(permanent bool) {
	if m == nil {
		return
	}
	kind := "timed"
	if permanent {
		kind = "permanent"
	}
	m.linksCreated.WithLabelValues(kind).Inc()
}

func (m *Metrics) LinkRenewed() {
	if m == nil {
		return
	}
	m.linksRenewed.Inc()
}

func (m *Metrics) EmailSent(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.emailsSent.WithLabelValues(result).Inc()
}
