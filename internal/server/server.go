package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/culinary-delights/backend/config"
	"github.com/pageza/culinary-delights/backend/internal/api"
	"github.com/pageza/culinary-delights/backend/internal/middleware"
	"github.com/pageza/culinary-delights/backend/internal/router"
	"github.com/pageza/culinary-delights/backend/internal/service"
	"github.com/pageza/culinary-delights/backend/internal/web"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Deps are the collaborators the server is assembled from. Meals defaults to
// a TheMealDB client built from the config; Redis is optional.
type Deps struct {
	Logger *slog.Logger
	Meals  service.MealGateway
	Redis  *redis.Client
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *slog.Logger
}

// New creates a new server instance
func New(cfg *config.Config, deps Deps) (*Server, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := web.LoadTemplates(cfg.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	meals := deps.Meals
	if meals == nil {
		meals = service.NewMealService(service.MealServiceConfig{
			BaseURL: cfg.MealDBBaseURL,
			Timeout: cfg.MealDBTimeout,
			Logger:  logger,
		})
	}
	handler := api.NewMealHandler(meals, logger, api.ParseRandomFetchMode(cfg.RandomFetchMode))

	engine := gin.New()
	// Forwarding headers are only honored from configured proxies, so the
	// rate limiter keys on an address the client cannot choose.
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)
	router.SetupRouter(engine, handler, router.Options{
		Logger:      logger,
		Production:  cfg.IsProduction(),
		CORSOrigins: cfg.CORSOrigins,
		Limiter:     newLimiter(cfg, deps.Redis, logger),
	})

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           engine,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: logger,
	}, nil
}

func newLimiter(cfg *config.Config, rdb *redis.Client, logger *slog.Logger) middleware.Limiter {
	if cfg.RateLimitRequests <= 0 {
		logger.Info("rate limiting disabled")
		return nil
	}
	limits := middleware.RateLimitConfig{
		Window: cfg.RateLimitWindow,
		Limit:  cfg.RateLimitRequests,
	}
	if rdb != nil {
		logger.Info("using Redis rate limiter", slog.Int("limit", limits.Limit), slog.Duration("window", limits.Window))
		return middleware.NewRedisLimiter(rdb, limits)
	}
	logger.Info("using in-process rate limiter", slog.Int("limit", limits.Limit), slog.Duration("window", limits.Window))
	return middleware.NewLocalLimiter(limits)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until the server is shut down. It returns nil after a
// graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("server listening", slog.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
