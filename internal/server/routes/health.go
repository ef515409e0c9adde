package routes

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/folio/internal/server"
	"github.com/any-hub/folio/internal/version"
)

type healthPayload struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// RegisterHealthRoutes 暴露 /health 探活接口。
func RegisterHealthRoutes(router fiber.Router, started time.Time) {
	if router == nil {
		return
	}
	router.Get("/health", func(c fiber.Ctx) error {
		return server.OK(c, healthPayload{
			Status:  "healthy",
			Version: version.Full(),
			Uptime:  time.Since(started).Truncate(time.Second).String(),
		})
	})
}
