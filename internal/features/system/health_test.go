package system

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	_ "career-console/docs"
	"career-console/internal/config"
	"career-console/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthInMemory(t *testing.T) {
	app := fiber.New()
	cfg := &config.Config{Environment: "development", APIBaseURL: config.DevelopmentAPIURL}
	NewSystemApi(NewHealthController(cfg, &database.MongodbDB{})).Setup(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body HealthStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "memory", body.Store)
	assert.Equal(t, config.DevelopmentAPIURL, body.APIBaseURL)
}

func TestSwaggerDocumentsRoutes(t *testing.T) {
	app := fiber.New()
	NewSystemApi(NewHealthController(&config.Config{}, &database.MongodbDB{})).Setup(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/swagger/doc.json", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var doc struct {
		Paths       map[string]map[string]any `json:"paths"`
		Definitions map[string]any            `json:"definitions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))

	for path, method := range map[string]string{
		"/health":                               "get",
		"/api/auth/logout":                      "get",
		"/api/import/sessions/{id}/file":        "post",
		"/api/import/sessions/{id}/reset":       "post",
		"/api/import/sessions/{id}/rejections":  "get",
		"/api/assessments/sessions/{id}/submit": "post",
		"/api/sweeps/run":                       "post",
	} {
		assert.Contains(t, doc.Paths[path], method, path)
	}
	assert.Contains(t, doc.Definitions, "import_feature.State")
	assert.Contains(t, doc.Definitions, "assessment.SessionState")
}
