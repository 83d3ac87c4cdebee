// Package metrics exposes Prometheus instrumentation for the risk analyzer.
package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "riskd"

var (
	// HTTPRequestsTotal counts HTTP requests by method, route and status class
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// TransactionsScoredTotal counts scored transactions by risk level
	TransactionsScoredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_scored_total",
			Help:      "Transactions scored, by resulting risk level",
		},
		[]string{"risk_level"},
	)

	// AnomalyIndicatorsTotal counts anomaly tags raised during account analysis
	AnomalyIndicatorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomaly_indicators_total",
			Help:      "Anomaly indicators raised during account analysis",
		},
		[]string{"indicator"},
	)

	// SnapshotFetchesTotal counts history snapshot lookups by provider and outcome
	SnapshotFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_fetches_total",
			Help:      "Account history snapshot fetches",
		},
		[]string{"provider", "outcome"},
	)

	// DBConnectionsOpen tracks open database connections
	DBConnectionsOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_open",
			Help:      "Open database connections",
		},
	)

	// DBConnectionsInUse tracks in-use database connections
	DBConnectionsInUse = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_in_use",
			Help:      "Database connections currently in use",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		TransactionsScoredTotal,
		AnomalyIndicatorsTotal,
		SnapshotFetchesTotal,
		DBConnectionsOpen,
		DBConnectionsInUse,
	)
}

// Middleware records request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, route, statusBucket(c.Writer.Status()),
		).Inc()
		HTTPRequestDuration.WithLabelValues(
			c.Request.Method, route,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// statusBucket groups status codes into 2xx/3xx/4xx/5xx classes
func statusBucket(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

// StartDBStatsCollector periodically samples connection pool stats until
// the stop channel closes.
func StartDBStatsCollector(db *sql.DB, interval time.Duration, stop <-chan struct{}) {
	if db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				stats := db.Stats()
				DBConnectionsOpen.Set(float64(stats.OpenConnections))
				DBConnectionsInUse.Set(float64(stats.InUse))
			case <-stop:
				return
			}
		}
	}()
}
