package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/cartograph/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("ATLAS_ENV", "local")
	t.Setenv("ATLAS_INTERVAL", "5m")
	t.Setenv("ATLAS_ARCGIS_TOKEN", "testToken")
	t.Setenv("ATLAS_ARCGIS_SOURCE_COUNTRY", "UKR")
	t.Setenv("ATLAS_POSTGRES_HOST", "testHost")
	t.Setenv("ATLAS_POSTGRES_PORT", "12345")
	t.Setenv("ATLAS_POSTGRES_USER", "admin")
	t.Setenv("ATLAS_POSTGRES_PASSWORD", "adminpass")
	t.Setenv("ATLAS_POSTGRES_NAME", "testName")

	cfg := config.MustLoad("")

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "arcgis_list", cfg.ProviderType)
	assert.Equal(t, "testToken", cfg.ArcGIS.Token)
	assert.Equal(t, "UKR", cfg.ArcGIS.SourceCountry)
	assert.Equal(t, "testHost", cfg.Database.Host)
	assert.Equal(t, "12345", cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "adminpass", cfg.Database.Password)
	assert.Equal(t, "testName", cfg.Database.Name)
	assert.Equal(t, 5*time.Minute, cfg.Interval)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10, cfg.Workers)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 50, cfg.RateLimit)
}

func Test_LoadFromFile(t *testing.T) {
	defer filet.CleanUp(t)

	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, "atlas.yaml")
	filet.File(t, path, `
env: development
provider: google
workers: 3
interval: 30s
google:
  api_key: file-key
postgres:
  host: db
  name: atlas
`)

	// Environment wins over the file.
	t.Setenv("ATLAS_WORKERS", "7")

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "google", cfg.ProviderType)
	assert.Equal(t, "file-key", cfg.Google.APIKey)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.ErrorContains(t, err, "failed to read config file")
}

func TestMustLoad_IntervalError(t *testing.T) {
	t.Setenv("ATLAS_INTERVAL", "error_value")

	assert.Panics(t, func() {
		config.MustLoad("")
	})
}

func TestLoad_WorkersError(t *testing.T) {
	t.Setenv("ATLAS_WORKERS", "0")

	_, err := config.Load("")

	require.ErrorContains(t, err, "'Workers' failed on the 'min' tag")
}

func TestLoad_UnsupportedProvider(t *testing.T) {
	t.Setenv("ATLAS_PROVIDER", "nominatim")

	_, err := config.Load("")

	require.ErrorContains(t, err, "ProviderType")
}

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := config.PostgresConfig{Host: "db", Port: "5432", User: "atlas", Password: "p@ss", Name: "tasks"}

	assert.Equal(t, "postgres://atlas:p%40ss@db:5432/tasks", cfg.DSN())
}
