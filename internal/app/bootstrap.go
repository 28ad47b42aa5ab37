package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"referral-finder/internal/config"
	"referral-finder/internal/delivery/http/handler"
	"referral-finder/internal/delivery/http/middleware"
	"referral-finder/internal/delivery/http/routes"
	v1 "referral-finder/internal/delivery/http/routes/v1"
	"referral-finder/internal/pkg/jwt"
	"referral-finder/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.Default()

	ctx, cancel := context.WithCancel(context.Background())
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	go c.Hub.Run(ctx)

	app := New(c)
	logger.Printf("[App] ready | env=%s extraction=%s llm=%s", cfg.App.Environment, cfg.Extraction.Backend, cfg.LLM.Provider)

	cleanup := func() error {
		cancel()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(c.Config.JWT.AccessSecret, c.Config.JWT.RefreshSecret, c.Config.JWT.AccessExpiresIn)

	health := handler.NewHealthHandler(c.DB, c.Redis, c.Config.Extraction.Backend, c.Config.LLM.Provider)
	routes.NewRegistry(health, v1.Handlers{
		Auth:     middleware.NewAuthMiddleware(jwtSvc),
		Jobs:     handler.NewJobHandler(c.Extraction),
		Referral: handler.NewReferralHandler(c.Referral),
		WS:       ws.NewHandler(c.Hub, c.Logger),
	}).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
