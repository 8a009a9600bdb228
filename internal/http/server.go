package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"finanzas/internal/core"
	"finanzas/internal/metrics"
	"finanzas/internal/middleware/ratelimit"
	"finanzas/internal/middleware/security"
	"finanzas/internal/middleware/trace"
	"finanzas/internal/services"
)

// Ledger is the write side used by the handlers.
type Ledger interface {
	AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) (core.Transaction, error)
	Transactions(ctx context.Context) ([]core.Transaction, error)
	Settings(ctx context.Context) (services.Settings, error)
	UpdateSettings(ctx context.Context, in services.Settings) error
	Categories(ctx context.Context, kind core.Kind) ([]string, error)
}

// Dashboard is the read side used by the handlers.
type Dashboard interface {
	Now() time.Time
	KPIs(ctx context.Context, year, month int) (core.KPIBundle, error)
	Balance(ctx context.Context) (core.Money, error)
	Breakdown(ctx context.Context, year, month int) ([]core.CategoryAmount, error)
	PeriodTransactions(ctx context.Context, year, month int) ([]core.Transaction, error)
}

// Options tunes the HTTP server. Zero values select defaults.
type Options struct {
	RateLimitPerMinute int
	TrustedProxies     []string
	// Ready is consulted by /readyz. A nil Ready always reports ready.
	Ready func(ctx context.Context) error
	// Metrics, when set, observes every request. MetricsHandler is mounted
	// at /metrics.
	Metrics        *metrics.Collector
	MetricsHandler http.Handler
}

type Server struct {
	http.Server
	ledger    Ledger
	dashboard Dashboard
	limiter   *ratelimit.Limiter
	clientIP  *security.ClientIPResolver
	ready     func(ctx context.Context) error
	metrics   *metrics.Collector

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, ledger Ledger, dashboard Dashboard, opts Options) (*Server, error) {
	proxies := opts.TrustedProxies
	if len(proxies) == 0 {
		proxies = security.DefaultTrustedProxies
	}
	resolver, err := security.NewClientIPResolver(proxies...)
	if err != nil {
		return nil, err
	}

	s := &Server{
		ledger:    ledger,
		dashboard: dashboard,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		clientIP: resolver,
		ready:    opts.Ready,
		metrics:  opts.Metrics,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}

	mux.HandleFunc("GET /api/balance", s.handleBalance)
	mux.HandleFunc("GET /api/kpis", s.handleKPIs)
	mux.HandleFunc("GET /api/breakdown", s.handleBreakdown)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("PUT /api/config", s.handlePutConfig)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/export", s.handleExport)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.clientIP.ClientIP, ratelimit.Mutating, s.handleRateLimited)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	tracer := trace.NewMiddleware(s.clientIP.ClientIP)
	if s.metrics != nil {
		tracer = tracer.WithObserver(s.metrics)
	}
	handler = tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Shutdown stops the rate limiter and drains the HTTP server. Only the first
// call has an effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			slog.WarnContext(r.Context(), "Readiness check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	if s.metrics != nil {
		s.metrics.RecordRateLimited()
	}
	slog.WarnContext(r.Context(), "Rate limit exceeded", "client_ip", s.clientIP.ClientIP(r), "path", r.URL.Path)
	writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded, retry later"})
}
