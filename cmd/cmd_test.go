package cmd

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"cardcommand/core/config"
	"cardcommand/core/middleware/auth"
	"cardcommand/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.Upstream.BaseURL = "http://127.0.0.1:1/api"
	cfg.Upstream.MaxRetries = 0
	return cfg
}

func TestNewApplication_Defaults(t *testing.T) {
	deps, err := newApplication(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer deps.Close()

	assert.NotNil(t, deps.service)
	assert.Nil(t, deps.db)
	assert.True(t, deps.cache.Enabled())
	assert.False(t, deps.reconciler.Config().Enabled)
}

func TestNewServer_HealthAndAuth(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.ApiKey = "secret"

	deps, err := newApplication(cfg, zap.NewNop())
	require.NoError(t, err)

	app := newServer(cfg, zap.NewNop(), deps.service)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(rayid.HeaderName))

	resp, err = app.Test(httptest.NewRequest("GET", "/releases/products", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/releases/archive/latest", nil)
	req.Header.Set(auth.HeaderName, "secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestConfirmAction(t *testing.T) {
	yesConfirm = false
	assert.True(t, confirmAction(strings.NewReader("yes\n"), "Go?"))
	assert.False(t, confirmAction(strings.NewReader("no\n"), "Go?"))
	assert.False(t, confirmAction(strings.NewReader(""), "Go?"))

	yesConfirm = true
	defer func() { yesConfirm = false }()
	assert.True(t, confirmAction(strings.NewReader(""), "Go?"))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"count": 2}))
	assert.Equal(t, "{\n  \"count\": 2\n}\n", buf.String())
}

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range RootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["releases"])

	sub := map[string]bool{}
	for _, c := range releasesCmd.Commands() {
		sub[c.Name()] = true
	}
	assert.Equal(t, map[string]bool{"products": true, "sync": true, "migrate": true}, sub)
}
