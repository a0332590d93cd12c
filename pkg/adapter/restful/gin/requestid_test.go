package gin_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	gingonic "github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin"
	"github.com/momeni/fleetflow/pkg/core/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDReachesLogs(t *testing.T) {
	gingonic.SetMode(gingonic.TestMode)
	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, nil)))
	defer slog.SetDefault(prev)

	e := gin.New(gin.RequestID())
	e.GET("/ping", func(c *gingonic.Context) {
		log.Info(c, "pinged")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := w.Header().Get(gin.RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err, "a fresh request id is assigned")
	assert.Contains(t, buf.String(), "request_id="+id)

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(gin.RequestIDHeader, given)
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	assert.Equal(t, given, w.Header().Get(gin.RequestIDHeader))

	req.Header.Set(gin.RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(gin.RequestIDHeader))
}
