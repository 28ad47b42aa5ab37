package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const CtxRequestIDKey = "request_id"

type AccessLogMiddleware struct {
	logger *log.Logger
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("X-Request-ID", rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		// Errors are rendered by ErrorMiddleware further out, so the status here
		// may still be the default; prefer the error's own code.
		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}

		user := "-"
		if id, ok := UserIDFromCtx(c); ok {
			user = id.String()
		}

		m.logger.Printf(
			"HTTP access | rid=%s ip=%s method=%s path=%s status=%d latency=%s user=%s ua=%q",
			rid, c.IP(), c.Method(), c.OriginalURL(), status, time.Since(start), user, c.Get("User-Agent"),
		)

		return err
	}
}

func statusOf(err error) int {
	status, _, _ := normalizeError(err)
	return status
}
