package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"institute-app-go/pkg/logger"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "RKI", cfg.Receipts.Prefix)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "X-Actor-Role", cfg.Auth.RoleHeader)
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE", "Memory")
	t.Setenv("RECEIPT_PREFIX", "adm")
	t.Setenv("DB_MAX_OPEN_CONNS", "42")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load(logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "ADM", cfg.Receipts.Prefix)
	assert.Equal(t, 42, cfg.DB.MaxOpenConns)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE", "sqlite")

	_, err := Load(logger.Nop())
	require.Error(t, err)
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HTTP_PORT=9999\nREDIS_ADDR=localhost:6379 # local\n"), 0o600))
	chdir(t, nested)
	t.Setenv("HTTP_PORT", "7000")
	t.Setenv("REDIS_ADDR", "")
	require.NoError(t, os.Unsetenv("REDIS_ADDR"))

	cfg, err := Load(logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Unsetenv("REDIS_ADDR") })

	assert.Equal(t, "7000", cfg.HTTPPort)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestGetDSN(t *testing.T) {
	cfg := DBConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", TimeZone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.GetDSN())

	cfg.DSN = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.GetDSN())
}
