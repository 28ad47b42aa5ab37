package v1

import (
	"referral-finder/internal/delivery/http/handler"
	"referral-finder/internal/delivery/http/middleware"
	"referral-finder/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth     *middleware.AuthMiddleware
	Jobs     *handler.JobHandler
	Referral *handler.ReferralHandler
	WS       *ws.Handler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Jobs != nil {
		h.Jobs.RegisterRoutes(r)
	}
	if h.Auth == nil {
		return
	}

	// The websocket group goes first: the header-only group below guards the
	// whole prefix and would reject query-token clients.
	if h.WS != nil {
		h.WS.RegisterRoutes(r.Group("/ws", h.Auth.WithQueryToken().Middleware()))
	}
	if h.Referral != nil {
		h.Referral.RegisterRoutes(r.Group("", h.Auth.Middleware()))
	}
}
