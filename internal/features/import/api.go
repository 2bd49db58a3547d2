package import_feature

import (
	"career-console/internal/common/api"
	"career-console/internal/config"
	"career-console/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type ImportApi struct {
	ImportController *ImportController
	Config           *config.Config
}

func NewImportApi(importController *ImportController, config *config.Config) api.Route {
	return &ImportApi{
		ImportController: importController,
		Config:           config,
	}
}

func (api *ImportApi) Setup(app *fiber.App) {
	group := app.Group("/api/import", middleware.AuthMiddleware(api.Config.SkipAuth, api.Config.JWTSecret))

	group.Get("/schemas", api.ImportController.ListSchemas)

	group.Post("/sessions", api.ImportController.CreateSession)
	group.Get("/sessions/:id", api.ImportController.GetSession)
	group.Delete("/sessions/:id", api.ImportController.DeleteSession)
	group.Post("/sessions/:id/file", api.ImportController.UploadFile)
	group.Put("/sessions/:id/table", api.ImportController.ChangeTable)
	group.Put("/sessions/:id/mapping", api.ImportController.SetMapping)
	group.Post("/sessions/:id/continue", api.ImportController.Continue)
	group.Post("/sessions/:id/back", api.ImportController.Back)
	group.Post("/sessions/:id/confirm", api.ImportController.Confirm)
	group.Post("/sessions/:id/retry", api.ImportController.Retry)
	group.Post("/sessions/:id/reset", api.ImportController.Reset)
	group.Get("/sessions/:id/rejections", api.ImportController.DownloadRejections)

	group.Use("/sessions/:id/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	group.Get("/sessions/:id/ws", websocket.New(api.ImportController.Stream))
}
