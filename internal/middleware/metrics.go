package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daybreak_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "daybreak_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Visitor metrics
	visitorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "daybreak_visitors_total",
			Help: "Total number of page visits (all requests)",
		},
	)

	visitorsUnique = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "daybreak_visitors_unique_total",
			Help: "Total number of unique visitors (by fingerprint)",
		},
	)

	activeVisitors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "daybreak_visitors_active",
			Help: "Number of active visitors in the last 5 minutes",
		},
	)

	// Page view metrics
	pageViewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daybreak_page_views_total",
			Help: "Total page views by path",
		},
		[]string{"path"},
	)

	loginsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "daybreak_logins_total",
			Help: "Total number of successful logins",
		},
	)

	recoveryCodesSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "daybreak_recovery_codes_sent_total",
			Help: "Total number of recovery codes dispatched by mail",
		},
	)

	recoveryLockoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "daybreak_recovery_lockouts_total",
			Help: "Total number of recovery attempts that hit the lockout threshold",
		},
	)

	postsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "daybreak_posts_created_total",
			Help: "Total number of blog posts created",
		},
	)

	commentsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "daybreak_comments_created_total",
			Help: "Total number of comments created",
		},
	)

	// Error metrics
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daybreak_errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type"},
	)
)

// VisitorTracker tracks unique visitors using an in-memory set with TTL.
// Track and ActiveCount are called from request goroutines and the gauge
// refresher concurrently, so the set is held under a mutex.
// For production, this should use Redis for distributed tracking.
type VisitorTracker struct {
	mu      sync.Mutex
	seen    map[string]time.Time
	maxSize int
}

// NewVisitorTracker creates a new visitor tracker.
func NewVisitorTracker(maxSize int) *VisitorTracker {
	if maxSize <= 0 {
		maxSize = 100000 // Default 100k unique visitors
	}
	return &VisitorTracker{
		seen:    make(map[string]time.Time),
		maxSize: maxSize,
	}
}

// Track records a visitor and returns true if they're new.
func (vt *VisitorTracker) Track(fingerprint string) bool {
	now := time.Now()

	vt.mu.Lock()
	defer vt.mu.Unlock()

	// Clean old entries (older than 24 hours)
	if len(vt.seen) > vt.maxSize/2 {
		cutoff := now.Add(-24 * time.Hour)
		for k, v := range vt.seen {
			if v.Before(cutoff) {
				delete(vt.seen, k)
			}
		}
	}

	if _, exists := vt.seen[fingerprint]; exists {
		return false
	}

	vt.seen[fingerprint] = now
	return true
}

// ActiveCount returns the number of visitors in the last duration.
func (vt *VisitorTracker) ActiveCount(d time.Duration) int {
	cutoff := time.Now().Add(-d)

	vt.mu.Lock()
	defer vt.mu.Unlock()

	count := 0
	for _, t := range vt.seen {
		if t.After(cutoff) {
			count++
		}
	}
	return count
}

// Global visitor tracker instance
var visitorTracker = NewVisitorTracker(100000)

// Metrics returns a middleware that records Prometheus metrics. The
// active-visitors gauge refresher runs until ctx is cancelled.
func Metrics(ctx context.Context) func(next http.Handler) http.Handler {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				activeVisitors.Set(float64(visitorTracker.ActiveCount(5 * time.Minute)))
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			wrapped := &metricsResponseWriter{ResponseWriter: w, status: http.StatusOK}

			// Track visitor
			fingerprint := getVisitorFingerprint(r)
			visitorsTotal.Inc()

			if visitorTracker.Track(fingerprint) {
				visitorsUnique.Inc()
			}

			// Get normalized path for metrics (avoid cardinality explosion)
			path := normalizePath(r)

			if isWebPage(r.URL.Path) {
				pageViewsTotal.WithLabelValues(path).Inc()
			}

			// Execute handler
			next.ServeHTTP(wrapped, r)

			// Record metrics
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.status)

			httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)

			// Track errors
			if wrapped.status >= 400 {
				errorType := "client_error"
				if wrapped.status >= 500 {
					errorType = "server_error"
				}
				errorsTotal.WithLabelValues(errorType).Inc()
			}
		})
	}
}

type metricsResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *metricsResponseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.status = code
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

// getVisitorFingerprint creates a privacy-respecting fingerprint.
// Uses IP + User-Agent hash, not tracking cookies.
func getVisitorFingerprint(r *http.Request) string {
	ip := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip = strings.Split(forwarded, ",")[0]
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		ip = realIP
	}

	data := ip + "|" + r.UserAgent()
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8]) // First 8 bytes is enough
}

// normalizePath normalizes URL paths to prevent cardinality explosion.
func normalizePath(r *http.Request) string {
	// Get route pattern from chi if available
	rctx := chi.RouteContext(r.Context())
	if rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}

	// Fallback: collapse numeric IDs
	// /post/42 -> /post/{id}
	segments := strings.Split(r.URL.Path, "/")
	for i, seg := range segments {
		if seg != "" && isNumeric(seg) {
			segments[i] = "{id}"
		}
	}

	return strings.Join(segments, "/")
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// isWebPage returns true if the path is a web page (not static or ops).
func isWebPage(path string) bool {
	if strings.HasPrefix(path, "/static/") {
		return false
	}
	if path == "/health" || path == "/ready" || path == "/metrics" {
		return false
	}
	return true
}

// IncrementLogins increments the successful-logins counter.
func IncrementLogins() {
	loginsTotal.Inc()
}

// IncrementRecoveryCodesSent increments the recovery-code dispatch counter.
func IncrementRecoveryCodesSent() {
	recoveryCodesSentTotal.Inc()
}

// IncrementRecoveryLockouts increments the recovery-lockout counter.
func IncrementRecoveryLockouts() {
	recoveryLockoutsTotal.Inc()
}

// IncrementPostsCreated increments the posts-created counter.
func IncrementPostsCreated() {
	postsCreatedTotal.Inc()
}

// IncrementCommentsCreated increments the comments-created counter.
func IncrementCommentsCreated() {
	commentsCreatedTotal.Inc()
}
