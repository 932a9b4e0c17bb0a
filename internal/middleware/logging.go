package middleware

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation ID back to callers.
const RequestIDHeader = "X-Request-ID"

// Logging assigns each request a correlation ID and logs method, path,
// status, and duration once the handler chain finishes. Caller-supplied IDs
// are kept so a frontend can correlate its own traces.
func Logging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Locals("request_id", requestID)
		c.Set(RequestIDHeader, requestID)

		err := c.Next()

		status := c.Response().StatusCode()
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			// The error handler runs after this middleware, so the
			// response status isn't set yet on the error path.
			status = fiberErr.Code
		}

		log.Printf("[%s] %s %s -> %d (%s)", requestID, c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}
