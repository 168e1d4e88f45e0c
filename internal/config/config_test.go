package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: "postgres://localhost/fbresponse"
`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(30), cfg.Scraper.NavTimeoutSecs)
	assert.Equal(t, 4, cfg.Processing.Workers)
	assert.Equal(t, "./output", cfg.Processing.OutputDir)
	assert.Equal(t, int64(5), cfg.Processing.MaxUploadMB)
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "s3cret")
	path := writeConfig(t, `
auth:
  jwt_secret: "${TEST_JWT_SECRET}"
`)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
