package assessment

import (
	"career-console/internal/common/api"
	"career-console/internal/config"
	"career-console/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type AssessmentApi struct {
	AssessmentController *AssessmentController
	Config               *config.Config
}

func NewAssessmentApi(assessmentController *AssessmentController, config *config.Config) api.Route {
	return &AssessmentApi{
		AssessmentController: assessmentController,
		Config:               config,
	}
}

func (api *AssessmentApi) Setup(app *fiber.App) {
	group := app.Group("/api/assessments", middleware.AuthMiddleware(api.Config.SkipAuth, api.Config.JWTSecret))

	group.Get("/tests", api.AssessmentController.ListTests)
	group.Post("/sessions", api.AssessmentController.StartSession)
	group.Get("/sessions/:id", api.AssessmentController.GetSession)
	group.Delete("/sessions/:id", api.AssessmentController.CloseSession)
	group.Put("/sessions/:id/answers", api.AssessmentController.Answer)
	group.Post("/sessions/:id/submit", api.AssessmentController.Submit)

	group.Use("/sessions/:id/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	group.Get("/sessions/:id/ws", websocket.New(api.AssessmentController.Stream))
}
