package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"finlytics/internal/backend"
	"finlytics/internal/format"
	"finlytics/internal/log"
	"finlytics/internal/middleware/ratelimit"
	"finlytics/internal/middleware/security"
	"finlytics/internal/middleware/trace"
	"finlytics/internal/services"
)

const defaultRequestTimeout = 15 * time.Second

type (
	// Pinger is the readiness probe for the store.
	Pinger interface {
		Ping(ctx context.Context) error
	}

	Options struct {
		Addr           string
		RequestTimeout time.Duration
		// Limiter guards mutating requests. Nil gets an in-memory limiter
		// with the default quota.
		Limiter *ratelimit.Limiter
		Logger  *log.Logger
	}

	appMetrics struct {
		ledgerWrites int64
		uptime       time.Time
	}
)

// Server is the finlytics JSON API.
type Server struct {
	http.Server

	ledger   *services.LedgerService
	insights *services.InsightsService
	reports  *services.ReportService
	store    Pinger
	queued   bool

	formatter *format.Formatter

	logger           *log.Logger
	events           *log.StructuredLogger
	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	headers          *security.HeadersMiddleware
	appMetrics       *appMetrics

	shutdownOnce sync.Once
}

// NewServer wires the routes over b's services.
func NewServer(b *backend.Backend, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.NewLimiter(ratelimit.DefaultConfig(), nil)
	}

	if b.Formatter == nil {
		b.Formatter = format.Default()
	}

	detector := security.NewDetector()
	events := log.NewStructuredLogger(logger)
	s := &Server{
		ledger:           b.Ledger,
		insights:         b.Insights,
		reports:          b.Reports,
		store:            b.Storage,
		queued:           b.AMQP != nil,
		formatter:        b.Formatter,
		logger:           logger,
		events:           events,
		rateLimiter:      limiter,
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP, events),
		headers:          security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		appMetrics:       &appMetrics{uptime: time.Now()},
	}

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(opts.RequestTimeout),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      opts.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes(timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.traceMiddleware.Middleware)
	r.Use(log.Middleware(s.logger))
	r.Use(log.RequestIDMiddleware(trace.RequestIDFromRequest))
	r.Use(s.headers.Middleware)
	r.Use(s.flagSuspicious)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("Route not found.").Write(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed.").Write(w)
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		r.Use(s.limitMutations)

		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/plans", s.handlePlans)
		r.Post("/affordability", s.handleAffordability)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/forecast", s.handleForecast)

		r.Get("/transactions", s.handleListTransactions)
		r.Post("/transactions", s.handleCreateTransaction)
		r.Delete("/transactions/{id}", s.handleDeleteTransaction)

		r.Get("/subscriptions", s.handleListSubscriptions)
		r.Post("/subscriptions", s.handleCreateSubscription)
		r.Delete("/subscriptions/{id}", s.handleDeleteSubscription)

		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handleSaveProfile)

		r.Get("/savings", s.handleListSavings)
		r.Post("/savings", s.handleCreateSaving)
		r.Delete("/savings/{id}", s.handleDeleteSaving)

		r.Get("/reports", s.handleListReports)
		r.Post("/reports", s.handleRequestReport)
	})
	return r
}

// limitMutations applies the rate limiter to everything but reads.
func (s *Server) limitMutations(next http.Handler) http.Handler {
	limited := s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.onRateLimit)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			limited.ServeHTTP(w, r)
		}
	})
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").
		Header("Retry-After", "60").
		Write(w)
}

// flagSuspicious logs probe-like requests and lets them through.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reason := s.securityDetector.DetectSuspiciousRequest(r); reason != "" {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request",
				"reason", reason,
				log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the limiter and drains the server. It is safe to call more
// than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// ListenAndServe runs until Shutdown; http.ErrServerClosed is not an error.
func (s *Server) ListenAndServe() error {
	if err := s.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
