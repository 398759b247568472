package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"lantern/etl-core/internal/pipeline"
)

// SetupStatusRoutes exposes the run over HTTP: liveness on / and /health,
// the pipeline snapshot on /stats.
func (s *Server) SetupStatusRoutes(manager *pipeline.Manager) {
	health := func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "UP",
			"time":   time.Now().Format(time.RFC3339),
		})
	}

	s.App.Get("/", health)
	s.App.Get("/health", health)

	s.App.Get("/stats", func(c *fiber.Ctx) error {
		snap := manager.Snapshot()
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"run_id":       snap.RunID,
			"running":      snap.Running,
			"observed":     snap.Observed,
			"not_observed": snap.NotObserved,
			"findings":     snap.Findings,
			"exported":     snap.Exported,
			"seen":         snap.Seen,
			"queues": fiber.Map{
				"observe": snap.QueueDepths.Observe,
				"adapt":   snap.QueueDepths.Adapt,
				"export":  snap.QueueDepths.Export,
			},
			"uptime": snap.Uptime.String(),
		})
	})
}
