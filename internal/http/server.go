package http

import (
	"context"
	"html/template"
	"net/http"
	"sync"
	"time"

	"riepilogo/internal/core"
	"riepilogo/internal/log"
	"riepilogo/internal/middleware/ratelimit"
	"riepilogo/internal/middleware/security"
	"riepilogo/internal/middleware/trace"
	"riepilogo/internal/services"
	appweb "riepilogo/web"
)

// Pinger is implemented by storage that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators a Server needs. Pinger is optional.
type Deps struct {
	Expenses  *services.ExpenseService
	Summaries *services.SummaryService
	Pinger    Pinger
	Logger    *log.Logger
	// RateLimit caps writes per client per minute; zero uses the default.
	RateLimit int
}

type Server struct {
	http.Server
	templates *template.Template
	expenses  *services.ExpenseService
	summaries *services.SummaryService
	pinger    Pinger
	logger    *log.Logger
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	tracer    *trace.Middleware

	startedAt    time.Time
	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
// A template parse failure is logged and reported by /readyz.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		expenses:  deps.Expenses,
		summaries: deps.Summaries,
		pinger:    deps.Pinger,
		logger:    logger,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimit}),
		detector:  security.NewDetector(logger),
		startedAt: time.Now(),
		now:       time.Now,
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /expenses", s.handleListExpenses)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("PUT /expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("GET /summary", s.handleSummary)
	mux.HandleFunc("GET /summary.svg", s.handleSummarySVG)

	var h http.Handler = mux
	h = s.limiter.Middleware(s.detector.ExtractClientIP, http.MethodPost, http.MethodPut, http.MethodDelete)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.detector.Middleware(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) today() core.Date {
	n := s.now()
	return core.NewDate(n.Year(), int(n.Month()), n.Day())
}

// Shutdown stops the rate limiter, drains the HTTP server and logs the
// request counters gathered by the middleware.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
		s.logger.Info("HTTP server stopped",
			"requests", s.tracer.TotalRequests(),
			"suspicious", s.detector.SuspiciousRequests(),
			"rate_limited", s.limiter.Hits())
	})
	return shutdownErr
}
