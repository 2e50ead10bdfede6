package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/culinary-delights/backend/internal/apperrors"
	"github.com/pageza/culinary-delights/backend/internal/model"
	"github.com/pageza/culinary-delights/backend/internal/web"
)

// StatusClientClosedRequest is written when the client went away before the
// response was ready.
const StatusClientClosedRequest = 499

// ErrorHandlerConfig configures ErrorHandler.
type ErrorHandlerConfig struct {
	Logger *slog.Logger
	// Production hides error detail from the rendered page.
	Production bool
}

// ErrorHandler renders the error page for errors handlers attached with
// c.Error, and for recovered panics.
func ErrorHandler(cfg ErrorHandlerConfig) gin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				panicRecoveries.Inc()
				err := apperrors.New(apperrors.ErrCodeInternal, fmt.Sprintf("panic: %v", rec))
				stack := string(debug.Stack())
				logger.Error("panic recovered",
					slog.String("request_id", GetRequestID(c)),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
					slog.Any("error", rec),
					slog.String("stack", stack),
				)
				renderError(c, cfg.Production, err, stack)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if apperrors.IsCanceled(err) {
			logger.Warn("request canceled by client",
				slog.String("request_id", GetRequestID(c)),
				slog.String("path", c.Request.URL.Path),
				slog.Any("error", err),
			)
			if !c.Writer.Written() {
				c.AbortWithStatus(StatusClientClosedRequest)
			}
			return
		}

		logger.Error("request failed",
			slog.String("request_id", GetRequestID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("code", string(apperrors.CodeOf(err))),
			slog.Any("error", err),
		)
		if c.Writer.Written() {
			return
		}
		renderError(c, cfg.Production, err, errorChain(err))
	}
}

func renderError(c *gin.Context, production bool, err error, stack string) {
	view := model.ErrorView{
		Title:   model.ServerErrorTitle,
		Message: err.Error(),
		Stack:   stack,
	}
	if production {
		view.Message = model.ProductionErrorMessage
		view.Stack = ""
	}
	c.HTML(http.StatusInternalServerError, web.ErrorTemplate, view)
	c.Abort()
}

// errorChain lists err and each error it wraps, one per line.
func errorChain(err error) string {
	var lines []string
	for e := errors.Unwrap(err); e != nil; e = errors.Unwrap(e) {
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}

// NotFound renders the 404 page for requests that match no route.
func NotFound(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		logger.Warn("route not found",
			slog.String("request_id", GetRequestID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		c.HTML(http.StatusNotFound, web.NotFoundTemplate, model.NotFoundView{
			Title:   model.PageNotFoundTitle,
			Message: model.ResourceNotFoundMessage,
		})
	}
}
