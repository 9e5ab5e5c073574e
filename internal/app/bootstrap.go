package app

import (
	"context"
	"fmt"
	"strings"

	"skill-match/internal/config"
	"skill-match/internal/delivery/http/handler"
	"skill-match/internal/delivery/http/middleware"
	"skill-match/internal/delivery/http/routes"
	v1 "skill-match/internal/delivery/http/routes/v1"
	"skill-match/internal/ws"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	routes.NewRegistry(
		newHealthHandler(c),
		ws.NewHandler(c.Hub, c.Logger).HandleRankingsWS,
		v1.Handlers{
			Match:    handler.NewMatchHandler(c.MatchUC),
			Ranking:  handler.NewRankingHandler(c.RankingUC),
			Bias:     handler.NewBiasHandler(c.BiasUC),
			Ontology: handler.NewOntologyHandler(c.OntologyUC),
			Models:   handler.NewModelHandler(c.ModelUC),
		},
	).Register(f)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(ctx context.Context, cfg config.Config, l *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, l)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return New(c), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, l *zap.Logger) {
	app.Use(middleware.NewAccessLogMiddleware(l).Middleware())
	app.Use(middleware.NewErrorMiddleware(l).Middleware())
}

func newHealthHandler(c *Container) *handler.HealthHandler {
	info := map[string]string{
		"app":              c.Config.App.AppName,
		"store":            c.Config.Store.Driver,
		"ontology_version": c.Ontology.Version(),
		"ml_model":         "fallback",
	}
	if c.Predictor.Trained() {
		info["ml_model"] = "trained"
	}

	checks := []handler.HealthCheck{{Name: "cache", Check: c.Cache.Ping}}
	if !c.Config.Redis.Enabled {
		checks = nil
	}
	if c.DB != nil {
		checks = append(checks, handler.HealthCheck{Name: "database", Critical: true, Check: c.DB.Ping})
	}
	return handler.NewHealthHandler(info, checks...)
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
