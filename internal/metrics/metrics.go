package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "schoolshop", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "status"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "schoolshop", Name: "handler_errors_total", Help: "Handler errors",
	})
	Purchases = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "schoolshop", Name: "purchases_total", Help: "Successful shop purchases",
	})
	PointsGranted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "schoolshop", Name: "points_granted_total", Help: "Points granted to students",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "schoolshop", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HandlerErrors, Purchases, PointsGranted, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
