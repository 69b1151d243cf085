// Package metrics defines the Prometheus collectors for the site.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/adee/portfolio/internal/timeline"
)

var (
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "portfolio_build_info",
		Help: "Build information of the portfolio site",
	}, []string{"version", "commit", "date"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portfolio_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	TimelineLayoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_timeline_layouts_total",
		Help: "Total number of timeline layouts computed",
	})

	TimelineRejectedEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_timeline_rejected_events_total",
		Help: "Events dropped from a layout because their dates were invalid",
	}, []string{"reason"})

	TimelineTickMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_timeline_tick_misses_total",
		Help: "Events whose month had no tick; always a bug",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "portfolio_active_sessions",
		Help: "Number of live visitor sessions",
	})

	ContactMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_contact_messages_total",
		Help: "Contact form submissions by outcome",
	}, []string{"outcome"})

	VisitorsCleanedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_visitors_cleaned_total",
		Help: "Visitor records removed by the retention sweep",
	})
)

// Middleware records request counts and latencies by route template.
func Middleware(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
}

// Diagnostics counts timeline problems. The server pairs it with a logging
// sink through timeline.MultiDiagnostics.
type Diagnostics struct{}

func (Diagnostics) InvalidEvent(_ int, _ timeline.Event, err error) {
	TimelineRejectedEventsTotal.WithLabelValues(rejectReason(err)).Inc()
}

func (Diagnostics) TickMiss(int, timeline.Event) {
	TimelineTickMissesTotal.Inc()
}

func rejectReason(err error) string {
	switch {
	case err == nil:
		return "unknown"
	case errors.Is(err, timeline.ErrNoDate):
		return "no_date"
	case errors.Is(err, timeline.ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, timeline.ErrNoTitle):
		return "no_title"
	default:
		return "other"
	}
}
