package entrypoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/config"
	dbaudit "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Global:   config.Global{ShutdownTimeoutInSeconds: 1},
		Database: config.Database{Path: filepath.Join(t.TempDir(), "catalog.db"), LogLevel: "silent"},
		Sessions: config.Sessions{Lifetime: time.Hour},
		Audit:    config.Audit{RetentionDays: 30, CleanupSchedule: "0 3 * * *"},
		Tasks:    config.Tasks{Enabled: false, Workers: 1},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	app, err := NewApp(cfg, "test")
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func TestNewApp_ServesCatalog(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/check_db", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "9: The 5 People You Meet in Heaven by Mitch Albom (Rating: 9.0)", w.Body.String())
	assert.Nil(t, app.Tasks)
}

func TestNewApp_InvalidSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Audit.CleanupSchedule = "every day"

	_, err := NewApp(cfg, "test")
	assert.Error(t, err)
}

func TestNewApp_ReadOnly(t *testing.T) {
	cfg := testConfig(t)
	cfg.Global.ReadOnly = true
	app := newTestApp(t, cfg)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/delete/9", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	book, err := app.DB.Books().FindByID(9)
	require.NoError(t, err)
	assert.NotNil(t, book)
}

func TestNewApp_CSRFGeneratesSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.CSRFEnabled = true
	app := newTestApp(t, cfg)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/delete/9", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApp_CleanupAuditEventsInline(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	old := &entities.AuditEvent{Action: "book_create", Status: entities.AuditStatusSuccess}
	require.NoError(t, app.Auditor.Log(old))
	require.NoError(t, app.DB.DB.Model(old).Update("created_at", time.Now().AddDate(0, 0, -60)).Error)

	require.NoError(t, app.cleanupAuditEvents())

	events, total, err := app.Auditor.Events(dbaudit.Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "only the seed event remains")
	assert.Equal(t, "book_seed", events[0].Action)
}

func TestApp_TasksLifecycle(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tasks = config.Tasks{Enabled: true, Workers: 1, ReleaseAfter: time.Minute, CleanupInterval: time.Hour}
	app := newTestApp(t, cfg)
	require.NotNil(t, app.Tasks)

	_, err := os.Stat(tasks.DatabasePath(cfg.Database.Path))
	require.NoError(t, err, "tasks database is created next to the catalog")

	require.NoError(t, app.Start(context.Background()))
	assert.True(t, app.Scheduler.IsRunning())
	require.NoError(t, app.cleanupAuditEvents())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	app.Shutdown(ctx)
	assert.False(t, app.Scheduler.IsRunning())
}
