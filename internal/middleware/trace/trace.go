// Package trace assigns request IDs and records request-level metrics
// for the JSON API.
package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

type contextKey string

// RequestIDKey is the context key under which the request ID is stored.
const RequestIDKey contextKey = "request_id"

// Metrics holds cumulative counters exposed on the metrics endpoint.
type Metrics struct {
	TotalRequests   int64 `json:"total_requests"`
	ClientErrors    int64 `json:"client_errors"`
	ServerErrors    int64 `json:"server_errors"`
	AvgDurationMicr int64 `json:"avg_duration_us"`
}

// Middleware traces every request: it tags the context with a request
// ID, logs start/completion, and accumulates counters.
type Middleware struct {
	extractIP func(*http.Request) string

	totalRequests int64
	clientErrors  int64
	serverErrors  int64
	totalMicros   int64
}

// NewMiddleware builds a trace middleware. extractIP may be nil when
// client IPs are not of interest.
func NewMiddleware(extractIP func(*http.Request) string) *Middleware {
	return &Middleware{extractIP: extractIP}
}

// Middleware returns the http.Handler wrapper.
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		requestID := GenerateRequestID()
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"client_ip", clientIP)

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		atomic.AddInt64(&m.totalRequests, 1)
		atomic.AddInt64(&m.totalMicros, duration.Microseconds())
		switch {
		case rw.status >= 500:
			atomic.AddInt64(&m.serverErrors, 1)
		case rw.status >= 400:
			atomic.AddInt64(&m.clientErrors, 1)
		}

		level := slog.LevelInfo
		if rw.status >= 500 {
			level = slog.LevelError
		} else if rw.status >= 400 {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration_ms", duration.Milliseconds())
	})
}

// Snapshot returns the current counters.
func (m *Middleware) Snapshot() Metrics {
	total := atomic.LoadInt64(&m.totalRequests)
	micros := atomic.LoadInt64(&m.totalMicros)
	var avg int64
	if total > 0 {
		avg = micros / total
	}
	return Metrics{
		TotalRequests:   total,
		ClientErrors:    atomic.LoadInt64(&m.clientErrors),
		ServerErrors:    atomic.LoadInt64(&m.serverErrors),
		AvgDurationMicr: avg,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// GenerateRequestID produces a unique request ID.
func GenerateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(buf)
}

// GetRequestID extracts the request ID from ctx, or "" if absent.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
