package middleware

import (
	"strconv"
	"time"

	"pgtiffin/internal/infra/metrics"

	"github.com/labstack/echo/v4"
)

// Metrics records request latency keyed by the route template, not the raw path.
func Metrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).
			Observe(time.Since(start).Seconds())

		return nil
	}
}
