package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/culinary-delights/backend/internal/api"
	"github.com/pageza/culinary-delights/backend/internal/middleware"
)

// Options configures SetupRouter.
type Options struct {
	Logger      *slog.Logger
	Production  bool
	CORSOrigins []string
	// Limiter is optional; nil disables rate limiting.
	Limiter middleware.Limiter
}

// RegisterPageRoutes binds the page routes to their handlers.
func RegisterPageRoutes(r gin.IRoutes, meals *api.MealHandler) {
	r.GET("/", meals.HomePage)
	r.GET("/meal/:id", meals.MealDetailPage)
}

// SetupRouter configures the application routes on engine.
func SetupRouter(engine *gin.Engine, meals *api.MealHandler, opts Options) *gin.Engine {
	engine.HandleMethodNotAllowed = true

	engine.Use(
		middleware.RequestID(),
		middleware.Metrics(),
		middleware.RequestLogger(opts.Logger),
		middleware.ErrorHandler(middleware.ErrorHandlerConfig{Logger: opts.Logger, Production: opts.Production}),
		middleware.CORS(opts.CORSOrigins),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pages := engine.Group("")
	if opts.Limiter != nil {
		pages.Use(middleware.RateLimit(opts.Limiter, opts.Logger))
	}
	RegisterPageRoutes(pages, meals)

	engine.NoRoute(middleware.NotFound(opts.Logger))

	return engine
}
