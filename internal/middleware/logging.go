package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging writes a concise structured line for each HTTP request. Requests
// carrying a verified session also log the session email.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			rid, _ := c.Get(ContextKeyRequestID).(string)
			line := "request_id=" + rid
			if email, ok := c.Get(ContextKeyUserEmail).(string); ok && email != "" {
				line += " user=" + email
			}
			log.Printf("%s method=%s path=%s status=%d latency=%s", line, c.Request().Method, c.Request().URL.Path, c.Response().Status, latency)

			return err
		}
	}
}
