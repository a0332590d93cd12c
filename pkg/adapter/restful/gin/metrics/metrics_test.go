package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/metrics"
	"github.com/momeni/fleetflow/pkg/core/cerr"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTransition(t *testing.T) {
	m := metrics.New(nil)
	m.ObserveTransition(model.TripStatusDispatched, nil)
	m.ObserveTransition(model.TripStatusDispatched, nil)
	m.ObserveTransition(model.TripStatusDispatched, fmtWrap(
		cerr.CapacityExceeded(errors.New("too heavy")),
	))
	m.ObserveTransition(model.TripStatusInvalid, cerr.BadRequest(
		errors.New("bad status"),
	))
	assert.Equal(t, 2.0, testutil.ToFloat64(
		m.Transitions("DISPATCHED", "applied"),
	))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.Transitions("DISPATCHED", "CapacityExceeded"),
	))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.Transitions("INVALID", "BadRequest"),
	))
}

func fmtWrap(err error) error {
	return errors.Join(errors.New("transition"), err)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New(nil)
	e := gin.New()
	e.Use(m.Middleware())
	e.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	e.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body,
		`fleetflow_http_requests_total{code="204",method="GET",route="/ping"} 1`,
	), body)
	assert.Contains(t, body, "fleetflow_http_request_duration_seconds_bucket")
}
