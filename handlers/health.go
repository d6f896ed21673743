package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthChecker reports whether a single dependency is reachable.
type HealthChecker func() error

type HealthHandler struct {
	checks map[string]HealthChecker
}

func NewHealthHandler(checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resultChan := make(chan fiber.Map, 1)

	go h.processHealthCheck(ctx, resultChan)

	select {
	case result := <-resultChan:
		if result["status"] != "ok" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(result)
		}
		return c.JSON(result)
	case <-ctx.Done():
		return c.Status(500).JSON(fiber.Map{
			"status":  "error",
			"message": "Health check timeout",
		})
	}
}

func (h *HealthHandler) processHealthCheck(ctx context.Context, resultChan chan<- fiber.Map) {
	status := "ok"
	components := fiber.Map{}
	for name, check := range h.checks {
		if err := check(); err != nil {
			status = "degraded"
			components[name] = err.Error()
		} else {
			components[name] = "ok"
		}
	}

	result := fiber.Map{
		"status":     status,
		"components": components,
	}

	select {
	case resultChan <- result:
	case <-ctx.Done():
		return
	}
}
