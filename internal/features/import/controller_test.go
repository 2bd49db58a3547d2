package import_feature

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"career-console/internal/backend"
	"career-console/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *fiber.App {
	return newTestAppWith(t, &fakeBackend{})
}

func newTestAppWith(t *testing.T, fb *fakeBackend) *fiber.App {
	t.Helper()
	app := fiber.New()
	svc := newTestService(t, fb, nil)
	NewImportApi(NewImportController(svc, zap.NewNop()), &config.Config{SkipAuth: true}).Setup(app)
	return app
}

// confirmedViaApi drives a new session through the wizard up to Submit.
func confirmedViaApi(t *testing.T, app *fiber.App) string {
	t.Helper()
	_, body := doJSON(t, app, "POST", "/api/import/sessions", nil)
	base := "/api/import/sessions/" + body["id"].(string)

	resp, _ := send(t, app, uploadRequest(t, base+"/file", "becas.csv", scholarshipsCSV, "scholarships"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, "PUT", base+"/mapping", setMappingRequest{Source: "Nombre Beca", Target: "nombre_beca"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, "POST", base+"/continue", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, "POST", base+"/confirm", nil)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	return base
}

func submissionPhase(t *testing.T, app *fiber.App, base string) string {
	t.Helper()
	_, body := doJSON(t, app, "GET", base, nil)
	sub, _ := body["submission"].(map[string]any)
	phase, _ := sub["phase"].(string)
	return phase
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if bytes.HasPrefix(raw, []byte("{")) && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func uploadRequest(t *testing.T, path, filename, content, table string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("target_table", table))
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportApiWizardFlow(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, "GET", "/api/import/schemas", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, "POST", "/api/import/sessions", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	id := body["id"].(string)
	base := "/api/import/sessions/" + id

	resp, body = send(t, app, uploadRequest(t, base+"/file", "becas.csv", scholarshipsCSV, "scholarships"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "map", body["step"])
	assert.Equal(t, false, body["can_continue"])

	resp, body = doJSON(t, app, "POST", base+"/continue", nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, []any{"Scholarship Name is required"}, body["violations"])

	resp, _ = doJSON(t, app, "PUT", base+"/mapping", setMappingRequest{Source: "Nombre Beca", Target: "nombre_beca"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, "POST", base+"/continue", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "preview", body["step"])

	resp, _ = doJSON(t, app, "POST", base+"/back", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, "POST", base+"/continue", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, "POST", base+"/confirm", nil)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "submit", body["step"])

	resp, _ = doJSON(t, app, "POST", base+"/confirm", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", base+"/rejections", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestImportApiErrors(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, "GET", "/api/import/sessions/nope", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	_, body := doJSON(t, app, "POST", "/api/import/sessions", nil)
	base := "/api/import/sessions/" + body["id"].(string)

	resp, _ = send(t, app, uploadRequest(t, base+"/file", "becas.pdf", "x", "scholarships"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = send(t, app, uploadRequest(t, base+"/file", "becas.csv", scholarshipsCSV, "students"))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, "PUT", base+"/table", changeTableRequest{TargetTable: TablePrograms})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", base, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp, _ = doJSON(t, app, "GET", base, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestImportApiRequiresToken(t *testing.T) {
	app := fiber.New()
	svc := newTestService(t, &fakeBackend{}, nil)
	NewImportApi(NewImportController(svc, zap.NewNop()), &config.Config{}).Setup(app)

	resp, _ := doJSON(t, app, "POST", "/api/import/sessions", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestImportApiResetConflictsWithUpload(t *testing.T) {
	fb := &fakeBackend{uploadGate: make(chan struct{})}
	app := newTestAppWith(t, fb)
	base := confirmedViaApi(t, app)

	require.Eventually(t, func() bool {
		return submissionPhase(t, app, base) == "uploading"
	}, time.Second, time.Millisecond)

	resp, body := doJSON(t, app, "POST", base+"/reset", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, ErrUploadInFlight.Error(), body["error"])

	close(fb.uploadGate)
	require.Eventually(t, func() bool {
		return submissionPhase(t, app, base) != "uploading"
	}, time.Second, time.Millisecond)

	resp, body = doJSON(t, app, "POST", base+"/reset", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "upload", body["step"])
}

func TestImportApiFileTooLarge(t *testing.T) {
	prev := maxRecordSize
	maxRecordSize = 1024
	t.Cleanup(func() { maxRecordSize = prev })

	app := newTestApp(t)
	_, body := doJSON(t, app, "POST", "/api/import/sessions", nil)
	base := "/api/import/sessions/" + body["id"].(string)

	big := scholarshipsCSV + strings.Repeat("Beca Extra,u-9,st-9\n", 100)
	resp, body := send(t, app, uploadRequest(t, base+"/file", "becas.csv", big, "scholarships"))
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Contains(t, body["error"], "too large")

	_, body = doJSON(t, app, "GET", base, nil)
	assert.Equal(t, "upload", body["step"])
}

func TestImportApiRejectionsGoneOnBackend(t *testing.T) {
	fb := &fakeBackend{
		jobs:          []backend.ImportJob{{Status: backend.JobStatusCompleted, HasRejections: true, InvalidRows: 1}},
		rejectionsErr: &backend.APIError{Status: http.StatusNotFound, Message: "job expired"},
	}
	app := newTestAppWith(t, fb)
	base := confirmedViaApi(t, app)

	require.Eventually(t, func() bool {
		return submissionPhase(t, app, base) == "completed"
	}, 2*time.Second, time.Millisecond)

	resp, _ := doJSON(t, app, "GET", base+"/rejections", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	fb.mu.Lock()
	fb.rejectionsErr = &backend.APIError{Status: http.StatusInternalServerError, Message: "boom"}
	fb.mu.Unlock()
	resp, _ = doJSON(t, app, "GET", base+"/rejections", nil)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}
