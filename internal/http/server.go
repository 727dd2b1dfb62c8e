// Package http exposes the round-up screen as a small JSON API:
// selectable weeks, per-week transactions with the computed round-up
// amount, and the round-up action itself.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"roundup/internal/cache"
	"roundup/internal/controller"
	applog "roundup/internal/log"
	"roundup/internal/middleware/ratelimit"
	"roundup/internal/middleware/security"
	"roundup/internal/middleware/trace"
	"roundup/internal/services"
)

type Server struct {
	http.Server

	ctrl     *controller.RoundUp
	resolver *services.AccountResolver

	// Week responses are immutable for a given feed, so they are
	// cached briefly to spare the gateway on repeated selections.
	weekCache *cache.LRUCache[weekResponse]

	limiter      *ratelimit.Limiter
	uptime       time.Time
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware. Callers adjust timeouts on the
// embedded http.Server before serving.
func NewServer(addr string, ctrl *controller.RoundUp, resolver *services.AccountResolver, cacheSize int, cacheTTL time.Duration) *Server {
	s := &Server{
		Server:    http.Server{Addr: addr},
		ctrl:      ctrl,
		resolver:  resolver,
		weekCache: cache.NewLRUCache[weekResponse](cacheSize, cacheTTL),
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		uptime:    time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/weeks", s.handleWeeks)
	mux.HandleFunc("GET /api/weeks/{index}/transactions", s.handleWeekTransactions)
	// Round-up moves real money, so it alone is rate limited.
	mux.Handle("POST /api/roundup",
		s.limiter.Middleware(clientIP)(http.HandlerFunc(s.handleRoundUp)))

	logger := applog.New(applog.Config{Component: applog.ComponentHTTP})
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	traceMW := trace.NewMiddleware(clientIP)

	s.Handler = traceMW.Middleware(
		applog.Middleware(logger)(
			applog.RequestIDMiddleware(requestIDFromContext)(
				headers.Middleware(mux))))
	return s
}

// Caches returns the caches eligible for periodic expiry cleanup.
func (s *Server) Caches() []cache.Cleaner {
	return []cache.Cleaner{s.weekCache}
}

// Shutdown stops the rate limiter cleanup goroutine and then shuts down
// the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	return r.RemoteAddr
}

func requestIDFromContext(r *http.Request) string {
	return trace.GetRequestID(r.Context())
}

// readyCheck bounds the dependency probe used by the readiness handler.
func (s *Server) readyCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := s.resolver.PrimaryAccount(ctx)
	return err
}
