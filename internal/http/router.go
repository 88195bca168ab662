package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/security"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())

	// Apply security headers to all responses
	router.Use(security.HeadersMiddleware())

	if cfg.ReadOnly != nil && cfg.ReadOnly.IsEnabled() {
		router.Use(cfg.ReadOnly.Handler())
	}

	// CSRF must run before the session middleware so that the session
	// context survives CSRF's request replacement
	if len(cfg.CSRFSecret) > 0 {
		router.Use(security.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.LoadAndSave())
	}

	router.SetHTMLTemplate(loadTemplates())

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	booksController := NewBooksController(cfg.Books, cfg.Auditor, cfg.Sessions)
	booksController.RegisterRoutes(router)

	if cfg.Auditor != nil {
		auditController := NewAuditController(cfg.Auditor)
		api := router.Group("/api")
		api.GET("/audit", auditController.Events)
	}

	return router
}
