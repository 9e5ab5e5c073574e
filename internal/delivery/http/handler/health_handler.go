package handler

import (
	"context"
	"time"

	"skill-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const healthCheckTimeout = 2 * time.Second

type HealthCheck struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

type HealthHandler struct {
	checks []HealthCheck
	info   map[string]string
}

func NewHealthHandler(info map[string]string, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, info: info}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthCheckTimeout)
	defer cancel()

	status := "ok"
	code := fiber.StatusOK
	components := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		if err := chk.Check(ctx); err != nil {
			components[chk.Name] = "down: " + err.Error()
			if chk.Critical {
				status = "down"
				code = fiber.StatusServiceUnavailable
			} else if status == "ok" {
				status = "degraded"
			}
			continue
		}
		components[chk.Name] = "up"
	}

	data := fiber.Map{"status": status, "components": components}
	for k, v := range h.info {
		data[k] = v
	}
	return response.Success(c, code, "", data)
}
