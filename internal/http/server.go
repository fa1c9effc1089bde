// Package http exposes the snapshot views and month mutations as a JSON
// API. Read endpoints serve from an LRU cache that mutations invalidate.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"carteira/internal/cache"
	"carteira/internal/middleware/ratelimit"
	"carteira/internal/middleware/security"
	"carteira/internal/middleware/trace"
	"carteira/internal/services"
	"carteira/internal/store"
)

const (
	snapshotCacheSize = 100
	snapshotCacheTTL  = 5 * time.Minute
)

type Server struct {
	http.Server

	snapshots *services.SnapshotService
	mutations *services.MutationService
	pinger    store.Pinger

	snapshotCache *cache.LRU
	tracer        *trace.Middleware
	limiter       *ratelimit.Limiter
	resolver      *security.IPResolver

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
// pinger may be nil when the backend has no connectivity check.
func NewServer(addr string, snapshots *services.SnapshotService, mutations *services.MutationService, pinger store.Pinger) *Server {
	s := &Server{
		snapshots:     snapshots,
		mutations:     mutations,
		pinger:        pinger,
		snapshotCache: cache.NewLRU(snapshotCacheSize, snapshotCacheTTL),
		limiter:       ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		resolver:      security.NewIPResolver(),
	}
	s.tracer = trace.NewMiddleware(s.resolver.ClientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/{kind}/pivot", s.handlePivot)
	mux.HandleFunc("GET /api/{kind}/summary", s.handleSummary)
	mux.HandleFunc("GET /api/{kind}/percent", s.handlePercent)
	mux.HandleFunc("GET /api/{kind}/participation", s.handleParticipation)

	throttle := s.limiter.Middleware(s.resolver.ClientIP)
	mux.Handle("POST /api/{kind}/months", throttle(http.HandlerFunc(s.handleSaveMonth)))
	mux.Handle("DELETE /api/{kind}/months/{label}", throttle(http.HandlerFunc(s.handleDeleteMonth)))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	handler := headers.Middleware(s.tracer.Middleware(mux))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops background goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
