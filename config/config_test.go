package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigEmbeddedDefaults(t *testing.T) {
	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "Pune", cfg.City.Name)
	assert.InDelta(t, 18.5204, cfg.City.Latitude, 1e-9)
	assert.Equal(t, 4, cfg.Recommend.TopK)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "8000", cfg.Server.HTTPPort)
	assert.NotEmpty(t, cfg.Scraper.Hotels)
}

func TestInitConfigEnvOverride(t *testing.T) {
	t.Setenv("TRIP_JWT_SECRETKEY", "from-env")

	cfg, err := InitConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.SecretKey)
}

func TestInitConfigAllowedOrigins(t *testing.T) {
	cfg, err := InitConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Server.AllowedOrigins)
}

func TestLoadReadsNamedDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trip.env")
	require.NoError(t, os.WriteFile(path, []byte("TRIP_JWT_ISSUER=from-dotenv\n"), 0o600))
	t.Setenv("TRIP_DOTENV", path)
	t.Cleanup(func() { os.Unsetenv("TRIP_JWT_ISSUER") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Dotenv)
	assert.Equal(t, "from-dotenv", cfg.JWT.Issuer)
}

func TestLoadMissingDotenvIsIgnored(t *testing.T) {
	t.Setenv("TRIP_DOTENV", filepath.Join(t.TempDir(), "absent.env"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "go-trip-planner", cfg.JWT.Issuer)
}
