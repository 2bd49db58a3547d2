package auth

import (
	"career-console/internal/common/api"
	"career-console/internal/config"
	"career-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	controller *AuthController
	config     *config.Config
}

func NewAuthApi(controller *AuthController, config *config.Config) api.Route {
	return &AuthApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers all auth-related routes
func (h *AuthApi) Setup(app *fiber.App) {
	group := app.Group("/api/auth")

	group.Get("/login", h.controller.Login)
	group.Get("/callback", h.controller.Callback)
	group.Post("/refresh", h.controller.Refresh)
	group.Get("/logout", h.controller.Logout)
	group.Get("/me", middleware.AuthMiddleware(h.config.SkipAuth, h.config.JWTSecret), h.controller.Me)
}
