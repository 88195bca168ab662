package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/readonly"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/security"
	"github.com/mrlokans/bookshelf/internal/sessions"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds every long-lived component of a running catalog.
type App struct {
	Router    *gin.Engine
	DB        *database.Database
	Auditor   *audit.Service
	Tasks     *tasks.Client
	Scheduler *scheduler.AuditCleanupScheduler

	retention  time.Duration
	taskCancel context.CancelFunc
}

// NewApp opens the catalog and wires all components. Nothing runs in the
// background until Start is called.
func NewApp(cfg *config.Config, version string) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path, database.WithLogLevel(database.ParseLogLevel(cfg.Database.LogLevel)))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		DB:        db,
		Auditor:   audit.NewService(db.Audit()),
		retention: audit.RetentionPeriod(cfg.Audit.RetentionDays),
	}

	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		app.Tasks, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}
		app.Tasks.Register(tasks.NewPurgeAuditEventsQueue(app.Auditor))
	}

	if cfg.Audit.CleanupSchedule != "" {
		if err := scheduler.ValidateCronSchedule(cfg.Audit.CleanupSchedule); err != nil {
			app.Close()
			return nil, fmt.Errorf("invalid AUDIT_CLEANUP_SCHEDULE: %w", err)
		}
	}
	app.Scheduler = scheduler.NewAuditCleanupScheduler(cfg.Audit.CleanupSchedule, app.cleanupAuditEvents)

	sqlDB, err := db.DB.DB()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	sessionManager, err := sessions.NewManager(sqlDB, cfg.Sessions.Lifetime, cfg.Security.SecureCookies)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize session manager: %w", err)
	}

	var csrfSecret []byte
	if cfg.Security.CSRFEnabled {
		secret := cfg.Security.CSRFSecret
		if secret == "" {
			secret, err = security.GenerateSecret()
			if err != nil {
				app.Close()
				return nil, err
			}
			log.Printf("Generated CSRF secret (set CSRF_SECRET to persist)")
		}
		csrfSecret = security.DecodeSecret(secret)
	}

	if cfg.Global.ReadOnly {
		log.Printf("Read-only mode enabled - write operations will be blocked")
	}

	app.Router = http_controllers.NewRouter(http_controllers.RouterConfig{
		Books:         db.Books(),
		Database:      db,
		Auditor:       app.Auditor,
		CSRFSecret:    csrfSecret,
		SecureCookies: cfg.Security.SecureCookies,
		Sessions:      sessionManager,
		ReadOnly:      readonly.NewMiddleware(cfg.Global.ReadOnly),
		Version:       version,
	})

	return app, nil
}

// cleanupAuditEvents enqueues the purge task, or runs the purge inline when
// the task queue is disabled.
func (a *App) cleanupAuditEvents() error {
	task := tasks.NewPurgeAuditEventsTask(a.retention)
	if a.Tasks != nil {
		_, err := a.Tasks.Enqueue(task)
		return err
	}

	deleted, err := a.Auditor.PurgeBefore(task.Cutoff)
	if err != nil {
		return err
	}
	log.Printf("Purged %d audit events older than %s", deleted, a.retention)
	return nil
}

// Start launches the task workers and the cleanup scheduler.
func (a *App) Start(ctx context.Context) error {
	if a.Tasks != nil {
		var taskCtx context.Context
		taskCtx, a.taskCancel = context.WithCancel(ctx)
		go a.Tasks.Start(taskCtx)
	}

	return a.Scheduler.Start(ctx)
}

// Shutdown stops background work: the scheduler first so it cannot enqueue
// into a stopped queue, then the task workers, then pending audit writes.
func (a *App) Shutdown(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Tasks != nil && a.taskCancel != nil {
		a.Tasks.Stop(ctx)
		a.taskCancel()
	}
	if a.Auditor != nil {
		a.Auditor.Wait()
	}
}

// Close releases the task and catalog databases.
func (a *App) Close() {
	if a.Tasks != nil {
		if err := a.Tasks.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill -2 is SIGINT, plain kill is SIGTERM; SIGKILL cannot be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf v%s", version)
	log.Printf("Database will be created at: %s", cfg.Database.Path)

	app, err := NewApp(cfg, version)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}

	Serve(app.Router, cfg, app.Shutdown)
}
