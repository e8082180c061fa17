// Package metrics exposes Prometheus collectors for the HTTP layer and the
// diary domain.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	diariesCreated prometheus.Counter
	comments       prometheus.Counter
	policyDenied   *prometheus.CounterVec
	followCache    *prometheus.CounterVec
}

// NewCollector 创建并注册所有指标
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todomate_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "todomate_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		diariesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todomate_diaries_created_total",
			Help: "Diaries created.",
		}),
		comments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todomate_comments_created_total",
			Help: "Comments created.",
		}),
		policyDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todomate_policy_denied_total",
			Help: "Access policy denials by record kind and mode.",
		}, []string{"record", "mode"}),
		followCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todomate_follow_cache_total",
			Help: "Follow lookup cache results.",
		}, []string{"result"}),
	}
	reg.MustRegister(c.requests, c.latency, c.diariesCreated, c.comments, c.policyDenied, c.followCache)
	return c
}

func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) DiaryCreated()   { c.diariesCreated.Inc() }
func (c *Collector) CommentCreated() { c.comments.Inc() }

func (c *Collector) PolicyDenied(record string, write bool) {
	mode := "read"
	if write {
		mode = "write"
	}
	c.policyDenied.WithLabelValues(record, mode).Inc()
}

func (c *Collector) FollowCacheHit()  { c.followCache.WithLabelValues("hit").Inc() }
func (c *Collector) FollowCacheMiss() { c.followCache.WithLabelValues("miss").Inc() }

// Handler 返回 Prometheus 抓取端点
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
