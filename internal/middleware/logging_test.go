package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)), Metrics())
	r.GET("/produtos", func(c *gin.Context) {
		c.Header("X-Cache", "HIT")
		c.String(http.StatusOK, "[]")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/produtos?x=1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	out := buf.String()
	require.Contains(t, out, `"path":"/produtos?x=1"`)
	require.Contains(t, out, `"status":200`)
	require.Contains(t, out, `"cache":"HIT"`)
}
