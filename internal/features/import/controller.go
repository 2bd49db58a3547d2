package import_feature

import (
	"bytes"
	"context"
	"errors"
	"io"

	"career-console/internal/backend"
	"career-console/internal/identity"
	"career-console/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ImportController struct {
	ImportService ImportService
	log           *zap.Logger
}

func NewImportController(importService ImportService, log *zap.Logger) *ImportController {
	return &ImportController{
		ImportService: importService,
		log:           log.Named("import"),
	}
}

type changeTableRequest struct {
	TargetTable TargetTable `json:"target_table"`
}

type setMappingRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// ListSchemas godoc
// @Summary List target tables
// @Description Returns the schema of every table that accepts bulk imports
// @Tags import
// @Produce json
// @Success 200 {array} TableSchema
// @Router /api/import/schemas [get]
func (c *ImportController) ListSchemas(ctx *fiber.Ctx) error {
	return ctx.JSON(c.ImportService.Schemas())
}

// CreateSession godoc
// @Summary Start an import wizard
// @Tags import
// @Produce json
// @Success 201 {object} State
// @Failure 401 {object} map[string]interface{}
// @Router /api/import/sessions [post]
func (c *ImportController) CreateSession(ctx *fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	st, err := c.ImportService.CreateSession(ctx.Context(), sess)
	if err != nil {
		return c.fail(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(st)
}

// GetSession godoc
// @Summary Get import wizard state
// @Tags import
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} State
// @Failure 404 {object} map[string]interface{}
// @Router /api/import/sessions/{id} [get]
func (c *ImportController) GetSession(ctx *fiber.Ctx) error {
	return c.run(ctx, func(rc context.Context, sess identity.Session, id string) (*State, error) {
		return c.ImportService.GetSession(rc, sess, id)
	})
}

// UploadFile godoc
// @Summary Choose the source file
// @Description Parses a CSV or XLSX file and moves the wizard to the Map step
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "Import File"
// @Param target_table formData string true "Target table"
// @Success 200 {object} State
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 413 {object} map[string]interface{}
// @Router /api/import/sessions/{id}/file [post]
func (c *ImportController) UploadFile(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is required"})
	}
	table := TargetTable(ctx.FormValue("target_table"))
	if table == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Target table is required"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read file"})
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read file"})
	}

	return c.run(ctx, func(rc context.Context, sess identity.Session, id string) (*State, error) {
		return c.ImportService.UploadFile(rc, sess, id, fileHeader.Filename, content, table)
	})
}

// ChangeTable godoc
// @Summary Change the target table
// @Description Switches the target table during the Map step and re-runs auto-matching
// @Tags import
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body changeTableRequest true "Target table"
// @Success 200 {object} State
// @Router /api/import/sessions/{id}/table [put]
func (c *ImportController) ChangeTable(ctx *fiber.Ctx) error {
	var req changeTableRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	return c.run(ctx, func(rc context.Context, sess identity.Session, id string) (*State, error) {
		return c.ImportService.ChangeTable(rc, sess, id, req.TargetTable)
	})
}

// SetMapping godoc
// @Summary Edit the column mapping
// @Description Assigns a source column to a field, or clears it with target "none"
// @Tags import
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body setMappingRequest true "Mapping change"
// @Success 200 {object} State
// @Router /api/import/sessions/{id}/mapping [put]
func (c *ImportController) SetMapping(ctx *fiber.Ctx) error {
	var req setMappingRequest
	if err := ctx.BodyParser(&req); err != nil || req.Source == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	return c.run(ctx, func(rc context.Context, sess identity.Session, id string) (*State, error) {
		return c.ImportService.SetMapping(rc, sess, id, req.Source, req.Target)
	})
}

// Continue godoc
// @Summary Continue to Preview
// @Tags import
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} State
// @Failure 422 {object} map[string]interface{}
// @Router /api/import/sessions/{id}/continue [post]
func (c *ImportController) Continue(ctx *fiber.Ctx) error {
	return c.run(ctx, func(rc context.Context, sess identity.Session, id string) (*State, error) {
		return c.ImportService.Continue(rc, sess, id)
	})
}

// Back godoc
// @Summary Go back one step
// @Tags import
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} State
// @Router /api/import/sessions/{id}/back [post]
func (c *ImportController) Back(ctx *fiber.Ctx) error {
	return c.run(ctx, func(rc context.Context, sess identity.Session, id string) (*State, error) {
		return c.ImportService.Back(rc, sess, id)
	})
}

// Confirm godoc
// @Summary Confirm and submit
// @Description Enters the Submit step and starts the upload in the background
// @Tags import
// @Produce json
// @Param id path string true "Session ID"
// @Success 202 {object} State
// @Router /api/import/sessions/{id}/confirm [post]
func (c *ImportController) Confirm(ctx *fiber.Ctx) error {
	ctx.Status(fiber.StatusAccepted)
	return c.run(ctx, func(rc context.Context, sess identity.Session, id string) (*State, error) {
		return c.ImportService.Confirm(rc, sess, id)
	})
}

// Retry godoc
// @Summary Retry a failed submission
// @Tags import
// @Produce json
// @Param id path string true "Session ID"
// @Success 202 {object} State
// @Router /api/import/sessions/{id}/retry [post]
func (c *ImportController) Retry(ctx *fiber.Ctx) error {
	ctx.Status(fiber.StatusAccepted)
	return c.run(ctx, func(rc context.Context, sess identity.Session, id string) (*State, error) {
		return c.ImportService.Retry(rc, sess, id)
	})
}

// Reset godoc
// @Summary Start over
// @Description Discards the file, mapping and submission and returns to Upload
// @Tags import
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} State
// @Failure 409 {object} map[string]interface{}
// @Router /api/import/sessions/{id}/reset [post]
func (c *ImportController) Reset(ctx *fiber.Ctx) error {
	return c.run(ctx, func(rc context.Context, sess identity.Session, id string) (*State, error) {
		return c.ImportService.Reset(rc, sess, id)
	})
}

// DownloadRejections godoc
// @Summary Download rejected rows
// @Tags import
// @Produce text/csv
// @Param id path string true "Session ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/import/sessions/{id}/rejections [get]
func (c *ImportController) DownloadRejections(ctx *fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var buf bytes.Buffer
	filename, err := c.ImportService.DownloadRejections(ctx.Context(), sess, ctx.Params("id"), &buf)
	if err != nil {
		return c.fail(ctx, err)
	}
	ctx.Attachment(filename)
	ctx.Set(fiber.HeaderContentType, "text/csv")
	return ctx.Send(buf.Bytes())
}

// DeleteSession godoc
// @Summary Close an import wizard
// @Tags import
// @Param id path string true "Session ID"
// @Success 204
// @Router /api/import/sessions/{id} [delete]
func (c *ImportController) DeleteSession(ctx *fiber.Ctx) error {
	sess, ok := middleware.SessionFrom(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	id := ctx.Params("id")
	if _, err := c.ImportService.GetSession(ctx.Context(), sess, id); err != nil {
		return c.fail(ctx, err)
	}
	if err := c.ImportService.CloseSession(ctx.Context(), id); err != nil {
		return c.fail(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// Stream pushes every state change of the session to the websocket client,
// starting with the current state.
func (c *ImportController) Stream(conn *websocket.Conn) {
	sess, ok := conn.Locals(middleware.SessionKey).(identity.Session)
	if !ok {
		conn.Close()
		return
	}
	id := conn.Params("id")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	current, err := c.ImportService.GetSession(ctx, sess, id)
	if err != nil {
		_ = conn.WriteJSON(fiber.Map{"error": err.Error()})
		return
	}
	updates, unsubscribe, err := c.ImportService.Subscribe(ctx, sess, id)
	if err != nil {
		_ = conn.WriteJSON(fiber.Map{"error": err.Error()})
		return
	}
	defer unsubscribe()

	// the client never sends; reading detects the close
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
				c.log.Debug("Import stream closed", zap.String("session_id", id), zap.Error(err))
				return
			}
		}
	}
}

func (c *ImportController) run(ctx *fiber.Ctx, fn func(context.Context, identity.Session, string) (*State, error)) error {
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

func (c *ImportController) fail(ctx *fiber.Ctx, err error) error {
	var incomplete *MappingIncompleteError
	var apiErr *backend.APIError

	switch {
	case errors.As(err, &incomplete):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":      err.Error(),
			"violations": incomplete.Violations,
		})
	case errors.Is(err, identity.ErrNotAuthenticated):
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrNoRejections):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case backend.IsNotFound(err):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found on the career backend"})
	case errors.Is(err, ErrFileTooLarge):
		return ctx.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrUploadInFlight):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrUnknownTable), errors.Is(err, ErrInvalidMapping),
		errors.Is(err, ErrUnsupportedFormat), errors.Is(err, ErrEmptyFile),
		errors.Is(err, ErrDuplicateHeader):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &apiErr):
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": apiErr.Message})
	}

	c.log.Error("Import request failed", zap.String("path", ctx.Path()), zap.Error(err))
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
