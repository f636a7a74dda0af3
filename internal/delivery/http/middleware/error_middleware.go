// Package middleware holds HTTP-specific middleware of the API server.
package middleware

import (
	"log/slog"
	"net/http"

	deliverycontext "pgtiffin/internal/delivery/context"
	"pgtiffin/internal/delivery/http/response"
	domainerrors "pgtiffin/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware translates errors returned by handlers into HTTP responses.
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler.
// 5xx responses only ever carry the generic message; the cause goes to the log.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok && httpErr.Code < http.StatusInternalServerError {
			message = msg
		}

		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", message)

		return
	}

	var appErr domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = domainerrors.ErrInternalError
	}
	if appErr.HTTPCode() >= http.StatusInternalServerError {
		m.logInternal(c, err, appErr)
	}

	_ = response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message())
}

func (m *ErrorMiddleware) logInternal(c echo.Context, err error, appErr domainerrors.AppError) {
	ctx := c.Request().Context()
	attrs := []any{
		slog.Any("error", err),
		slog.String("code", appErr.ErrorCode()),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	}
	if details := appErr.Details(); details != "" {
		attrs = append(attrs, slog.String("details", details))
	}

	deliverycontext.GetLoggerOrDefault(ctx, m.logger).ErrorContext(ctx, "Request failed", attrs...)
}
