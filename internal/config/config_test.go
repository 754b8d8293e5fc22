package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConsoleFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "console.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConsoleConfig_OverridesDefaults(t *testing.T) {
	path := writeConsoleFile(t, `
[console]
path_separator = " / "
variant_sort_policy = "zero"
category_cache_ttl = "30m"
warm_tenants = ["8d1f5a2e-7a44-4c36-9d3b-1f0e2a6b9c11"]
`)

	cfg, err := LoadConsoleConfig(path)
	require.NoError(t, err)
	assert.Equal(t, " / ", cfg.PathSeparator)
	assert.Equal(t, "zero", cfg.VariantSortPolicy)
	assert.Equal(t, 30*time.Minute, cfg.CategoryCacheTTL.Duration)
	assert.Equal(t, []string{"8d1f5a2e-7a44-4c36-9d3b-1f0e2a6b9c11"}, cfg.WarmTenants)

	// untouched keys keep their defaults
	assert.Equal(t, 5*time.Minute, cfg.CacheWarmInterval.Duration)
	assert.Equal(t, 15*time.Minute, cfg.ImageURLExpiry.Duration)
	assert.Equal(t, "UTC", cfg.TimeZone)
}

func TestLoadConsoleConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown sort policy",
			body:    "[console]\nvariant_sort_policy = \"first\"\n",
			wantErr: "variant_sort_policy must be one of",
		},
		{
			name:    "bad duration",
			body:    "[console]\ncategory_cache_ttl = \"soon\"\n",
			wantErr: "failed to load config file",
		},
		{
			name:    "unknown time zone",
			body:    "[console]\ntime_zone = \"Mars/Olympus\"\n",
			wantErr: "invalid time_zone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConsoleConfig(writeConsoleFile(t, tt.body))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadConsoleConfig_MissingFile(t *testing.T) {
	_, err := LoadConsoleConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://console@localhost/console")
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("CONSOLE_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.Minio.UseSSL)
	assert.Equal(t, DefaultConsoleConfig(), cfg.Console)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.EqualError(t, err, "DATABASE_URL environment variable is required")
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://console@localhost/console")
	t.Setenv("REDIS_DB", "primary")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid REDIS_DB")
}

func TestLoad_ReadsConsoleFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://console@localhost/console")
	t.Setenv("REDIS_DB", "")
	t.Setenv("CONSOLE_CONFIG", writeConsoleFile(t, "[console]\npath_separator = \" | \"\n"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, " | ", cfg.Console.PathSeparator)
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, ConsoleConfig{TimeZone: "Nowhere/Special"}.Location())
	assert.Equal(t, time.UTC, ConsoleConfig{TimeZone: "UTC"}.Location())
}
