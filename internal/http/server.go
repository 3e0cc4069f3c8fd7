package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"attendance/internal/app"
	"attendance/internal/log"
	"attendance/internal/middleware/ratelimit"
	"attendance/internal/middleware/security"
	"attendance/internal/middleware/trace"
	"attendance/internal/sheets"
)

// Options configure NewServer. Every field is optional.
type Options struct {
	// Lister backs GET /api/documents; without it the route answers 501.
	Lister    sheets.DocumentLister
	Logger    *log.Logger
	RateLimit ratelimit.Config
}

// Server is the JSON presentation layer over an app.App.
type Server struct {
	http.Server
	app       *app.App
	lister    sheets.DocumentLister
	logger    *log.Logger
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	tracer    *trace.Middleware
	startedAt time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, a *app.App, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		app:       a,
		lister:    opts.Lister,
		logger:    logger,
		limiter:   ratelimit.NewLimiter(opts.RateLimit),
		detector:  security.NewDetector(logger),
		startedAt: time.Now(),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/view", s.handleView)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/report", s.handleReport)

	mux.HandleFunc("POST /api/people", s.handleAddPerson)
	mux.HandleFunc("DELETE /api/people/last", s.handleRemoveLast)
	mux.HandleFunc("DELETE /api/people", s.handleClear)
	mux.HandleFunc("PUT /api/attendance", s.handleSetAttendance)
	mux.HandleFunc("PUT /api/metadata", s.handleSetMetadata)

	mux.HandleFunc("GET /api/documents", s.handleListDocuments)
	mux.HandleFunc("POST /api/documents/save", s.handleSave)
	mux.HandleFunc("POST /api/documents/load", s.handleLoad)
	mux.HandleFunc("POST /api/reports/export", s.handleExport)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handleUpdateSettings)

	var h http.Handler = mux
	h = s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimit)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.detector.Middleware(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	NewJSONResponse().
		Status(http.StatusTooManyRequests).
		Header("Retry-After", "60").
		Field("error", map[string]string{"message": "rate limit exceeded, try again later"}).
		Write(w)
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
