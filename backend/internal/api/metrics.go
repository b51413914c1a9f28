package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"wordgraph/backend/internal/graph"
	"wordgraph/backend/internal/snapshot"
)

var (
	// httpRequestsTotal counts requests by route, method and status
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordgraph_http_requests_total",
		Help: "Total HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	// httpRequestDuration tracks handler latency per route
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wordgraph_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16), // 0.5ms to ~16s
	}, []string{"route"})

	queryTimeoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordgraph_query_timeouts_total",
		Help: "Queries aborted by the query deadline",
	}, []string{"query"})

	graphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wordgraph_graph_nodes",
		Help: "Nodes in the published graph",
	})

	graphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wordgraph_graph_edges",
		Help: "Edges in the published graph",
	})

	graphPublishedAt = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wordgraph_graph_published_timestamp_seconds",
		Help: "Unix time the current graph was published",
	})

	// graphBuildsTotal counts rebuilds by result
	graphBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordgraph_graph_builds_total",
		Help: "Graph rebuilds by result",
	}, []string{"result"})

	graphBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wordgraph_graph_build_duration_seconds",
		Help:    "Graph build duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4m
	})
)

// ObservePublished records the size of a newly published graph
func ObservePublished(l *snapshot.Loaded) {
	if l == nil {
		return
	}
	graphNodes.Set(float64(l.Graph.NodeCount()))
	graphEdges.Set(float64(l.Graph.EdgeCount()))
	graphPublishedAt.Set(float64(l.PublishedAt.Unix()))
}

func observeBuild(stats graph.BuildStats, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	graphBuildsTotal.WithLabelValues(result).Inc()
	if stats.Duration > 0 {
		graphBuildDuration.Observe(stats.Duration.Seconds())
	}
}

// metricsMiddleware records request counts and latency per route template
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
