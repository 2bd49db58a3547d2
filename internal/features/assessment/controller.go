package assessment

import (
	"context"
	"errors"

	"career-console/internal/backend"
	"career-console/internal/identity"
	"career-console/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AssessmentController struct {
	AssessmentService AssessmentService
	log               *zap.Logger
}

func NewAssessmentController(assessmentService AssessmentService, log *zap.Logger) *AssessmentController {
	return &AssessmentController{
		AssessmentService: assessmentService,
		log:               log.Named("assessment"),
	}
}

type startSessionRequest struct {
	TestName string `json:"test_name"`
}

type answerRequest struct {
	QuestionID string `json:"question_id"`
	Option     string `json:"option"`
}

// ListTests godoc
// @Summary List tests
// @Tags assessments
// @Produce json
// @Success 200 {array} Test
// @Router /api/assessments/tests [get]
func (c *AssessmentController) ListTests(ctx *fiber.Ctx) error {
	return ctx.JSON(c.AssessmentService.Tests())
}

// StartSession godoc
// @Summary Start a test
// @Description Loads previously saved answers and starts the countdown
// @Tags assessments
// @Accept json
// @Produce json
// @Param body body startSessionRequest true "Test"
// @Success 201 {object} SessionState
// @Failure 404 {object} map[string]interface{}
// @Router /api/assessments/sessions [post]
func (c *AssessmentController) StartSession(ctx *fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	var req startSessionRequest
	if err := ctx.BodyParser(&req); err != nil || req.TestName == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "test_name is required"})
	}
	st, err := c.AssessmentService.StartSession(ctx.Context(), sess, req.TestName)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(st)
}

// GetSession godoc
// @Summary Get test session state
// @Tags assessments
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionState
// @Router /api/assessments/sessions/{id} [get]
func (c *AssessmentController) GetSession(ctx *fiber.Ctx) error {
	return c.run(ctx, func(rc context.Context, sess identity.Session, id string) (*SessionState, error) {
		return c.AssessmentService.GetSession(rc, sess, id)
	})
}

// Answer godoc
// @Summary Answer a question
// @Tags assessments
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body answerRequest true "Answer"
// @Success 200 {object} SessionState
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/assessments/sessions/{id}/answers [put]
func (c *AssessmentController) Answer(ctx *fiber.Ctx) error {
	var req answerRequest
	if err := ctx.BodyParser(&req); err != nil || req.QuestionID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	return c.run(ctx, func(rc context.Context, sess identity.Session, id string) (*SessionState, error) {
		return c.AssessmentService.Answer(rc, sess, id, req.QuestionID, req.Option)
	})
}

// Submit godoc
// @Summary Submit a test for grading
// @Tags assessments
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionState
// @Failure 422 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/assessments/sessions/{id}/submit [post]
func (c *AssessmentController) Submit(ctx *fiber.Ctx) error {
	return c.run(ctx, func(rc context.Context, sess identity.Session, id string) (*SessionState, error) {
		return c.AssessmentService.Submit(rc, sess, id)
	})
}

// CloseSession godoc
// @Summary Leave a test
// @Description Ends the session; unsubmitted answers are saved once
// @Tags assessments
// @Param id path string true "Session ID"
// @Success 204
// @Router /api/assessments/sessions/{id} [delete]
func (c *AssessmentController) CloseSession(ctx *fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	if err := c.AssessmentService.CloseSession(ctx.Context(), sess, ctx.Params("id")); err != nil {
		return c.fail(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// Stream pushes timer ticks and state changes to the websocket client.
func (c *AssessmentController) Stream(conn *websocket.Conn) {
	sess, ok := conn.Locals(middleware.SessionKey).(identity.Session)
	if !ok {
		conn.Close()
		return
	}
	id := conn.Params("id")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	current, err := c.AssessmentService.GetSession(ctx, sess, id)
	if err != nil {
		_ = conn.WriteJSON(fiber.Map{"error": err.Error()})
		return
	}
	updates, unsubscribe, err := c.AssessmentService.Subscribe(ctx, sess, id)
	if err != nil {
		_ = conn.WriteJSON(fiber.Map{"error": err.Error()})
		return
	}
	defer unsubscribe()

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(current); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case st, open := <-updates:
			if !open {
				return
			}
			if err := conn.WriteJSON(st); err != nil {
				c.log.Debug("Test stream closed", zap.String("session_id", id), zap.Error(err))
				return
			}
		}
	}
}

func (c *AssessmentController) run(ctx *fiber.Ctx, fn func(context.Context, identity.Session, string) (*SessionState, error)) error {
	sess, ok := middleware.SessionFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	st, err := fn(ctx.Context(), sess, ctx.Params("id"))
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.JSON(st)
}

func (c *AssessmentController) fail(ctx *fiber.Ctx, err error) error {
	var unanswered *UnansweredError
	var apiErr *backend.APIError

	switch {
	case errors.As(err, &unanswered):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":      err.Error(),
			"unanswered": unanswered.QuestionIDs,
		})
	case errors.Is(err, identity.ErrNotAuthenticated):
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrUnknownTest):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrAlreadySubmitted), errors.Is(err, ErrTimeExpired):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrInvalidAnswer):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &apiErr), errors.Is(err, backend.ErrMalformedResponse):
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	c.log.Error("Assessment request failed", zap.String("path", ctx.Path()), zap.Error(err))
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
