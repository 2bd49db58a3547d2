package system

import (
	"context"
	"time"

	"career-console/internal/config"
	"career-console/internal/database"

	"github.com/gofiber/fiber/v2"
)

type HealthStatus struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	APIBaseURL  string `json:"api_base_url"`
	Store       string `json:"store"`
	StoreOK     bool   `json:"store_ok"`
	Uptime      string `json:"uptime"`
}

type HealthController struct {
	config  *config.Config
	db      *database.MongodbDB
	started time.Time
}

func NewHealthController(cfg *config.Config, db *database.MongodbDB) *HealthController {
	return &HealthController{config: cfg, db: db, started: time.Now()}
}

// Health godoc
// @Summary      Service health
// @Description  Reports the resolved backend URL and session store reachability
// @Tags         system
// @Produce      json
// @Success      200  {object} HealthStatus
// @Failure      503  {object} HealthStatus
// @Router       /health [get]
func (h *HealthController) Health(c *fiber.Ctx) error {
	status := HealthStatus{
		Status:      "ok",
		Environment: h.config.Environment,
		APIBaseURL:  h.config.APIBaseURL,
		Store:       "memory",
		StoreOK:     true,
		Uptime:      time.Since(h.started).Round(time.Second).String(),
	}

	if h.db.Enabled() {
		status.Store = "mongo"
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.db.DB.Client().Ping(ctx, nil); err != nil {
			status.Status = "degraded"
			status.StoreOK = false
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
	}
	return c.JSON(status)
}
