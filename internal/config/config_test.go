package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
)

// loadWith sets env on top of a quiet dev baseline and loads the config.
func loadWith(t *testing.T, env map[string]string) (Config, error) {
	t.Helper()

	baseline := map[string]string{
		"APP_ENV":             EnvDev,
		"UPTRACE_ENABLED":     "false",
		"BETTERSTACK_ENABLED": "false",
		"PYROSCOPE_ENABLED":   "false",
	}
	for key, value := range baseline {
		t.Setenv(key, value)
	}
	for key, value := range env {
		t.Setenv(key, value)
	}
	return Load()
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown app env", env: map[string]string{"APP_ENV": "staging-eu"}},
		{name: "prod without admin token", env: map[string]string{"APP_ENV": EnvProd, "ADMIN_TOKEN": ""}},
		{name: "uptrace without dsn", env: map[string]string{"UPTRACE_ENABLED": "true", "UPTRACE_DSN": ""}},
		{name: "log shipping without endpoint", env: map[string]string{"BETTERSTACK_ENABLED": "true", "BETTERSTACK_ENDPOINT": ""}},
		{name: "pyroscope without server", env: map[string]string{"PYROSCOPE_ENABLED": "true", "PYROSCOPE_SERVER_ADDRESS": ""}},
		{name: "unsupported db driver", env: map[string]string{"DB_DRIVER": "mysql"}},
		{name: "zero relay timeout", env: map[string]string{"DBB_RELAY_TIMEOUT": "0s"}},
		{name: "schedule without leagues", env: map[string]string{"SYNC_INTERVAL": "30m", "SYNC_LEAGUE_IDS": ""}},
		{name: "zero sync workers", env: map[string]string{"SYNC_WORKERS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadWith(t, tt.env)
			assert.Error(t, err)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{
		"DB_DRIVER":            "",
		"DB_URL":               "",
		"DBB_RELAYS":           "",
		"CORS_ALLOWED_ORIGINS": "",
		"SWAGGER_ENABLED":      "",
	})
	require.NoError(t, err)

	assert.Equal(t, DBDriverMemory, cfg.DBDriver)
	assert.Empty(t, cfg.DBURL)
	assert.True(t, cfg.DBAutoMigrate)
	assert.True(t, cfg.SwaggerEnabled)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)

	assert.Nil(t, cfg.DBBRelays, "nil selects the built-in relay chain")
	assert.Equal(t, 2*time.Second, cfg.DBBDirectTimeout)
	assert.Equal(t, 8*time.Second, cfg.DBBRelayTimeout)
	assert.Equal(t, int64(6<<20), cfg.DBBMaxBodyBytes)

	assert.Zero(t, cfg.SyncInterval)
	assert.Equal(t, 1, cfg.SyncWorkers)
	assert.Equal(t, time.Hour, cfg.CatalogIndexTTL)
	assert.Equal(t, 6*time.Hour, cfg.LeagueListingTTL)
}

func TestLoad_ProdHidesSwagger(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{
		"APP_ENV":         EnvProd,
		"ADMIN_TOKEN":     "prod-token",
		"SWAGGER_ENABLED": "",
	})
	require.NoError(t, err)
	assert.False(t, cfg.SwaggerEnabled)
	assert.Equal(t, "prod-token", cfg.AdminToken)
}

func TestLoad_Database(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{"DB_DRIVER": "SQLite", "DB_URL": ""})
	require.NoError(t, err)
	assert.Equal(t, DBDriverSQLite, cfg.DBDriver)
	assert.True(t, strings.HasPrefix(cfg.DBURL, "file:"), cfg.DBURL)
}

func TestLoad_Relays(t *testing.T) {
	t.Run("custom list", func(t *testing.T) {
		cfg, err := loadWith(t, map[string]string{"DBB_RELAYS": " https://relay-a.example/?url= ,https://relay-b.example/"})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://relay-a.example/?url=", "https://relay-b.example/"}, cfg.DBBRelays)
	})

	t.Run("none disables relays", func(t *testing.T) {
		cfg, err := loadWith(t, map[string]string{"DBB_RELAYS": "none"})
		require.NoError(t, err)
		require.NotNil(t, cfg.DBBRelays)
		assert.Empty(t, cfg.DBBRelays)
	})
}

func TestLoad_Sync(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{
		"SYNC_INTERVAL":             "30m",
		"SYNC_LEAGUE_IDS":           "51961, 51962",
		"SYNC_WORKERS":              "3",
		"SYNC_GAME_DETAIL_INTERVAL": "0s",
	})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.SyncInterval)
	assert.Equal(t, []string{"51961", "51962"}, cfg.SyncLeagueIDs)
	assert.Equal(t, 3, cfg.SyncWorkers)
	assert.Zero(t, cfg.SyncGameDetailInterval)
}

func TestLoad_Observability(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{
		"SERVICE_NAME":             "dbb-sync-api-test",
		"BETTERSTACK_ENABLED":      "true",
		"BETTERSTACK_ENDPOINT":     "s1765114.eu-fsn-3.betterstackdata.com",
		"BETTERSTACK_TOKEN":        "token-123",
		"BETTERSTACK_TIMEOUT":      "4s",
		"BETTERSTACK_MIN_LEVEL":    "warn",
		"PPROF_ENABLED":            "true",
		"PPROF_ADDR":               "  ",
		"PYROSCOPE_ENABLED":        "true",
		"PYROSCOPE_SERVER_ADDRESS": "http://localhost:4040",
		"PYROSCOPE_APP_NAME":       "",
		"CORS_ALLOWED_ORIGINS":     " https://a.example.com, http://localhost:5173 ",
	})
	require.NoError(t, err)

	assert.True(t, cfg.BetterStackEnabled)
	assert.Equal(t, "s1765114.eu-fsn-3.betterstackdata.com", cfg.BetterStackEndpoint)
	assert.Equal(t, "token-123", cfg.BetterStackToken)
	assert.Equal(t, 4*time.Second, cfg.BetterStackTimeout)
	assert.Equal(t, logging.LevelWarn, cfg.BetterStackMinLevel)

	assert.Equal(t, ":6060", cfg.PprofAddr)
	assert.Equal(t, "dbb-sync-api-test", cfg.PyroscopeAppName)
	assert.Equal(t, []string{"https://a.example.com", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
}
