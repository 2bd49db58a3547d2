package cron_feature

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

type SweepController struct {
	Service SweepService
}

func NewSweepController(service SweepService) *SweepController {
	return &SweepController{
		Service: service,
	}
}

// ListRuns godoc
// @Summary List sweep runs
// @Description Recent idle-session sweep runs, newest first
// @Tags sweep
// @Produce json
// @Param limit query int false "Maximum runs to return"
// @Success 200 {array} SweepRun
// @Failure 500 {object} map[string]interface{}
// @Router /api/sweeps [get]
func (c *SweepController) ListRuns(ctx *fiber.Ctx) error {
	ctxt, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	runs, err := c.Service.ListRuns(ctxt, ctx.QueryInt("limit", 20))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if runs == nil {
		runs = []SweepRun{}
	}
	return ctx.JSON(runs)
}

// RunNow godoc
// @Summary Run sweep
// @Description Close idle import and assessment sessions immediately
// @Tags sweep
// @Produce json
// @Success 200 {object} SweepRun
// @Failure 500 {object} map[string]interface{}
// @Router /api/sweeps/run [post]
func (c *SweepController) RunNow(ctx *fiber.Ctx) error {
	ctxt, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	run, err := c.Service.RunNow(ctxt, "manual")
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(run)
}
