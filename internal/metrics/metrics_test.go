package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/adee/portfolio/internal/timeline"
)

func TestRejectReason(t *testing.T) {
	assert.Equal(t, "no_date", rejectReason(timeline.ErrNoDate))
	assert.Equal(t, "invalid_range", rejectReason(fmt.Errorf("row 3: %w", timeline.ErrInvalidRange)))
	assert.Equal(t, "no_title", rejectReason(timeline.ErrNoTitle))
	assert.Equal(t, "other", rejectReason(assert.AnError))
}

func TestDiagnostics_Counts(t *testing.T) {
	before := testutil.ToFloat64(TimelineRejectedEventsTotal.WithLabelValues("no_date"))
	misses := testutil.ToFloat64(TimelineTickMissesTotal)

	timeline.Layout([]timeline.Event{{Title: "undated"}}, timeline.Options{Diagnostics: Diagnostics{}})

	assert.Equal(t, before+1, testutil.ToFloat64(TimelineRejectedEventsTotal.WithLabelValues("no_date")))
	assert.Equal(t, misses, testutil.ToFloat64(TimelineTickMissesTotal))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware)
	r.GET("/nodes/:index", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/nodes/:index", "204")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/nodes/1", "/nodes/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}
