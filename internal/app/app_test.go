package app

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"institute-app-go/internal/config"
	"institute-app-go/pkg/logger"
)

func TestNewWithMemoryStorage(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE", "memory")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "4s")

	application, err := New(logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, application.Close()) })

	assert.Equal(t, Backends{Storage: config.StorageMemory, Receipts: config.StorageMemory}, application.Backends())
	assert.Equal(t, 4*time.Second, application.ShutdownTimeout())
	assert.Equal(t, "development", application.Env())

	srv := application.HTTPServer()
	require.NotNil(t, srv)
	assert.Equal(t, ":9090", srv.Addr)
	assert.NotZero(t, srv.IdleTimeout)
	assert.Greater(t, srv.WriteTimeout, 30*time.Second)
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE", "sqlite")

	_, err := New(logger.Nop())
	require.Error(t, err)
}

// Runs against a real Redis when TEST_REDIS_ADDR is set.
func TestNewUsesRedisForReceipts(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}
	chdir(t, t.TempDir())
	t.Setenv("STORAGE", "memory")
	t.Setenv("REDIS_ADDR", addr)

	application, err := New(logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, application.Close()) })

	assert.Equal(t, Backends{Storage: config.StorageMemory, Receipts: "redis"}, application.Backends())
}
