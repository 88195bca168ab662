package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := NewConfig()

	assert.Equal(t, int32(DefaultPort), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 2, cfg.Global.ShutdownTimeoutInSeconds)
	assert.False(t, cfg.Global.ReadOnly)
	assert.True(t, filepath.IsAbs(cfg.Database.Path))
	assert.Equal(t, "new-books-collection.db", filepath.Base(cfg.Database.Path))
	assert.Equal(t, "warn", cfg.Database.LogLevel)
	assert.False(t, cfg.Security.CSRFEnabled)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.Lifetime)
	assert.Equal(t, 30, cfg.Audit.RetentionDays)
	assert.Equal(t, "0 3 * * *", cfg.Audit.CleanupSchedule)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 1, cfg.Tasks.Workers)
	assert.Equal(t, 15*time.Minute, cfg.Tasks.ReleaseAfter)
}

func TestNewConfig_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("READ_ONLY", "true")
	t.Setenv("DATABASE_PATH", "/var/lib/books/catalog.db")
	t.Setenv("CSRF_ENABLED", "true")
	t.Setenv("AUDIT_RETENTION_DAYS", "7")
	t.Setenv("TASK_RELEASE_AFTER", "5m")

	cfg := NewConfig()

	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.True(t, cfg.Global.ReadOnly)
	assert.Equal(t, "/var/lib/books/catalog.db", cfg.Database.Path)
	assert.True(t, cfg.Security.CSRFEnabled)
	assert.Equal(t, 7, cfg.Audit.RetentionDays)
	assert.Equal(t, 5*time.Minute, cfg.Tasks.ReleaseAfter)
}

func TestNewConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HOST=127.0.0.1\nDATABASE_LOG_LEVEL=info\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("HOST")
		os.Unsetenv("DATABASE_LOG_LEVEL")
	})

	cfg := NewConfig()

	assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	assert.Equal(t, "info", cfg.Database.LogLevel)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "", resolvePath(""))
	assert.Equal(t, ":memory:", resolvePath(":memory:"))
	assert.Equal(t, "/abs/books.db", resolvePath("/abs/books.db"))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "books.db"), resolvePath("./books.db"))
}
