package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"fpl-go-dashboard/pkg/fplapi"
)

// Pinger checks that the prediction backend answers
type Pinger interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	startTime  time.Time
	backend    Pinger
	baseURL    string
	persistent bool
	version    string
}

func NewHealthHandler(backend Pinger, baseURL string, persistentSnapshots bool, version string) *HealthHandler {
	return &HealthHandler{
		startTime:  time.Now(),
		backend:    backend,
		baseURL:    baseURL,
		persistent: persistentSnapshots,
		version:    version,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "fpl-dashboard",
		"version": h.version,
		"uptime":  time.Since(h.startTime).String(),
		"time":    time.Now(),
	})
}

// Ready handles GET /health/ready. The dashboard still serves pages with the
// backend down, so a failed ping degrades readiness instead of failing it.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	status := "ready"
	backend := "ok"
	var detail string
	if err := h.backend.Health(ctx); err != nil {
		status = "degraded"
		backend = "unreachable"
		detail = fplapi.Message(err)
	}

	snapshots := "memory"
	if h.persistent {
		snapshots = "firestore"
	}

	return c.JSON(fiber.Map{
		"status": status,
		"checks": fiber.Map{
			"api":       "ok",
			"backend":   backend,
			"snapshots": snapshots,
		},
		"backend_url": h.baseURL,
		"detail":      detail,
	})
}
