package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthApp(checks map[string]HealthChecker) *fiber.App {
	app := fiber.New()
	app.Get("/health", NewHealthHandler(checks).HealthCheck)
	return app
}

func TestHealthCheckAllComponentsUp(t *testing.T) {
	app := healthApp(map[string]HealthChecker{
		"database": func() error { return nil },
		"redis":    func() error { return nil },
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "ok", payload["status"])

	components, ok := payload["components"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", components["database"])
	assert.Equal(t, "ok", components["redis"])
}

func TestHealthCheckReportsDegradedComponent(t *testing.T) {
	app := healthApp(map[string]HealthChecker{
		"database": func() error { return nil },
		"redis":    func() error { return errors.New("connection refused") },
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "degraded", payload["status"])

	components, ok := payload["components"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", components["database"])
	assert.Equal(t, "connection refused", components["redis"])
}
