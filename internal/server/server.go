package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/talent-tracker/internal/cache"
	"github.com/jonathan/talent-tracker/internal/config"
	"github.com/jonathan/talent-tracker/internal/logger"
	"github.com/jonathan/talent-tracker/internal/metrics"
	"github.com/jonathan/talent-tracker/internal/pipeline"
	"github.com/jonathan/talent-tracker/internal/server/middleware"
	"github.com/jonathan/talent-tracker/internal/server/ratelimit"
)

// Deps are the collaborators the server is built from. Store, Activities,
// JWT and Password are required; the rest fall back to disabled versions.
type Deps struct {
	Store      Store
	Activities ActivityStore
	Cache      *cache.Redis
	Metrics    *metrics.Metrics
	Logger     logger.Logger
	JWT        *config.JWTConfig
	Password   *config.PasswordConfig
	RateLimit  *ratelimit.Config
	Now        func() time.Time
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	activities  ActivityStore
	pipeline    *pipeline.Service
	cache       *cache.Redis
	metrics     *metrics.Metrics
	log         logger.Logger
	validator   *validator.Validate
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler
	corsOrigins map[string]bool
	now         func() time.Time
}

// New creates a new server instance
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server config is required")
	}
	if deps.Store == nil || deps.Activities == nil {
		return nil, errors.New("store and activity log are required")
	}
	if deps.JWT == nil || deps.Password == nil {
		return nil, errors.New("JWT and password configuration are required")
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.RateLimit == nil {
		deps.RateLimit = ratelimit.LoadConfig()
	}

	s := &Server{
		store:       deps.Store,
		activities:  deps.Activities,
		cache:       deps.Cache,
		metrics:     deps.Metrics,
		log:         deps.Logger,
		validator:   newValidator(),
		corsOrigins: make(map[string]bool, len(cfg.CORSAllowedOrigins)),
		now:         deps.Now,
	}
	for _, origin := range cfg.CORSAllowedOrigins {
		s.corsOrigins[origin] = true
	}

	s.pipeline = pipeline.NewService(deps.Store, deps.Activities, deps.Logger, deps.Metrics)

	var limiterOpts []ratelimit.Option
	if deps.RateLimit.Redis {
		if deps.Cache.Available() {
			limiterOpts = append(limiterOpts, ratelimit.WithStore(ratelimit.NewRedisStore(deps.Cache.Client())))
		} else {
			deps.Logger.Warn("RATE_LIMIT_REDIS set but redis is unavailable, using in-memory limiter")
		}
	}
	s.rateLimiter = ratelimit.NewLimiter(deps.RateLimit, limiterOpts...)

	s.jwtService = NewJWTService(deps.JWT)
	s.authHandler = NewAuthHandler(NewUserService(deps.Store, deps.Password), s.jwtService)

	s.handler = s.withLogging(s.withCORS(s.withRateLimit(s.routes())))
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// routes registers every endpoint. Routes under /api other than signup and
// login require a bearer token.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth(h))
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	// Auth
	mux.HandleFunc("POST /api/auth/signup", s.authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	protected("GET /api/auth/profile", s.authHandler.Profile)
	protected("PUT /api/auth/password", s.authHandler.UpdatePassword)

	// Dashboard
	protected("GET /api/dashboard/pipeline", s.handlePipeline)
	protected("GET /api/dashboard/metrics", s.handleDashboardMetrics)
	protected("GET /api/dashboard/recent-applications", s.handleRecentApplications)
	protected("GET /api/dashboard/activities", s.handleActivities)

	// Jobs
	protected("GET /api/jobs", s.handleListJobs)
	protected("POST /api/jobs", s.handleCreateJob)
	protected("GET /api/jobs/{id}", s.handleGetJob)
	protected("PUT /api/jobs/{id}", s.handleUpdateJob)
	protected("DELETE /api/jobs/{id}", s.handleDeleteJob)

	// Candidates
	protected("GET /api/candidates", s.handleListCandidates)
	protected("POST /api/candidates", s.handleCreateCandidate)
	protected("GET /api/candidates/{id}", s.handleGetCandidate)
	protected("PUT /api/candidates/{id}", s.handleUpdateCandidate)

	// Applications
	protected("GET /api/applications", s.handleListApplications)
	protected("POST /api/applications", s.handleCreateApplication)
	protected("GET /api/applications/{id}", s.handleGetApplication)
	protected("PUT /api/applications/{id}/status", s.handleUpdateApplicationStatus)
	protected("GET /api/applications/{id}/activities", s.handleApplicationActivities)
	protected("GET /api/applications/{id}/notes", s.handleListNotes)
	protected("POST /api/applications/{id}/notes", s.handleCreateNote)

	// Interviews
	protected("GET /api/interviews", s.handleListInterviews)
	protected("POST /api/interviews", s.handleCreateInterview)
	protected("GET /api/interviews/today", s.handleTodayInterviews)
	protected("GET /api/interviews/upcoming", s.handleUpcomingInterviews)

	return mux
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", logger.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// handleHealth reports whether the database is reachable
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	body := map[string]string{"status": "ok", "database": "ok", "cache": "disabled"}
	status := http.StatusOK
	if err := s.store.Ping(ctx); err != nil {
		logger.FromContext(r.Context()).Warn("health check: database unreachable", logger.Error(err))
		body["status"] = "degraded"
		body["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}
	if s.cache.Available() {
		body["cache"] = "ok"
	}
	respondJSON(w, r, status, body)
}
