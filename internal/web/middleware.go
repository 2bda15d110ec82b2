package web

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tigerroll/mapchat/internal/support/logger"
)

// requestLogger logs one line per request through the application logger.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let the error handler pick the status before it is logged.
				c.Error(err)
			}
			req := c.Request()
			status := c.Response().Status
			if status >= 500 {
				logger.Warnf("%s %s -> %d (%s)", req.Method, req.URL.Path, status, time.Since(start))
			} else {
				logger.Debugf("%s %s -> %d (%s)", req.Method, req.URL.Path, status, time.Since(start))
			}
			return nil
		}
	}
}
