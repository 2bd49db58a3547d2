package system

import (
	"career-console/internal/common/api"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

type SystemApi struct {
	controller *HealthController
}

func NewSystemApi(controller *HealthController) api.Route {
	return &SystemApi{controller: controller}
}

// Setup registers the unauthenticated operational routes.
func (h *SystemApi) Setup(app *fiber.App) {
	app.Get("/health", h.controller.Health)
	app.Get("/swagger/*", swagger.HandlerDefault)
}
