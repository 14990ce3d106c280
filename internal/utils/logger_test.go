package utils

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer) Logger {
	return NewSlogLogger(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func newTestEngine(logger Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ContextLogger(logger), LoggerMiddleware(logger))
	r.GET("/ok", func(c *gin.Context) {
		FromContext(c, logger).Info("inside handler")
		c.Status(http.StatusOK)
	})
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	return r
}

func TestContextLogger_GeneratesRequestID(t *testing.T) {
	var buf bytes.Buffer
	r := newTestEngine(newBufferLogger(&buf))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	id := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "inside handler", lines[0]["msg"])
	assert.Equal(t, id, lines[0]["request_id"])
	assert.Equal(t, "HTTP Request", lines[1]["msg"])
	assert.Equal(t, id, lines[1]["request_id"])
	assert.Equal(t, "INFO", lines[1]["level"])
}

func TestContextLogger_KeepsClientRequestID(t *testing.T) {
	var buf bytes.Buffer
	r := newTestEngine(newBufferLogger(&buf))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestLoggerMiddleware_LevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	r := newTestEngine(newBufferLogger(&buf))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.EqualValues(t, 404, lines[0]["status_code"])
	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "/boom", lines[1]["path"])
}

func TestFromContext_Fallback(t *testing.T) {
	fallback := NewLogger(false)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Same(t, fallback, FromContext(c, fallback))
}
