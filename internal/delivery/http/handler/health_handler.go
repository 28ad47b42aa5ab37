package handler

import (
	"context"
	"time"

	"referral-finder/internal/domain"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db       Pinger
	redis    Pinger
	backend  string
	provider string
	timeout  time.Duration
	now      func() time.Time
}

func NewHealthHandler(db, redis Pinger, extractionBackend, llmProvider string) *HealthHandler {
	return &HealthHandler{
		db:       db,
		redis:    redis,
		backend:  extractionBackend,
		provider: llmProvider,
		timeout:  2 * time.Second,
		now:      time.Now,
	}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
}

// Health answers 503 only when the database is down. Redis only backs quotas,
// which are bypassed while it is unreachable.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	st := domain.ServiceStatus{
		DatabaseHealthy:   ping(ctx, h.db),
		RedisHealthy:      ping(ctx, h.redis),
		ExtractionBackend: h.backend,
		LLMProvider:       h.provider,
		ServerTime:        h.now().UTC(),
	}

	status := fiber.StatusOK
	st.Status = "ok"
	if !st.DatabaseHealthy {
		status = fiber.StatusServiceUnavailable
		st.Status = "degraded"
	}
	return c.Status(status).JSON(st)
}

func ping(ctx context.Context, p Pinger) bool {
	if p == nil {
		return false
	}
	return p.Ping(ctx) == nil
}

