package cron_feature

import (
	"career-console/internal/common/api"
	"career-console/internal/config"
	"career-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SweepApi struct {
	sweepController *SweepController
	config          *config.Config
}

func NewSweepApi(sweepController *SweepController, config *config.Config) api.Route {
	return &SweepApi{
		sweepController: sweepController,
		config:          config,
	}
}

func (h *SweepApi) Setup(app *fiber.App) {
	sweeps := app.Group("/api/sweeps", middleware.AuthMiddleware(h.config.SkipAuth, h.config.JWTSecret))

	sweeps.Get("/", h.sweepController.ListRuns)
	sweeps.Post("/run", h.sweepController.RunNow)
}
