package observability

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestGinLoggerPropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	Setup(&buf, "info", "json")

	var seen string
	r := gin.New()
	r.Use(GinLogger())
	r.GET("/missions/:id", func(c *gin.Context) {
		seen = RequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/missions/apollo-11", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if seen != "req-123" || w.Header().Get(RequestIDHeader) != "req-123" {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, w.Header().Get(RequestIDHeader))
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if entry["request_id"] != "req-123" || entry["path"] != "/missions/:id" || entry["status"] != float64(http.StatusNoContent) {
		t.Fatalf("unexpected log entry %v", entry)
	}
}

func TestGinLoggerGeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Setup(&bytes.Buffer{}, "error", "text")

	r := gin.New()
	r.Use(GinLogger())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if len(w.Header().Get(RequestIDHeader)) != 36 {
		t.Fatalf("expected generated uuid, got %q", w.Header().Get(RequestIDHeader))
	}
}
