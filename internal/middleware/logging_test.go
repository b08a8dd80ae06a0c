package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(Logging(logger))
	r.Get("/post/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("gone"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/post/42", nil))

	line := buf.String()
	if !strings.Contains(line, "route=/post/{id}") {
		t.Errorf("log line %q missing matched route pattern", line)
	}
	if !strings.Contains(line, "path=/post/42") {
		t.Errorf("log line %q missing raw path", line)
	}
	if !strings.Contains(line, "status=404") {
		t.Errorf("log line %q missing status", line)
	}
	if !strings.Contains(line, "bytes=4") {
		t.Errorf("log line %q missing body size", line)
	}
}
