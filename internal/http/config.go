package http

import (
	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/readonly"
	"github.com/mrlokans/bookshelf/internal/sessions"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Books    BookStore
	Database *database.Database // health checks only
	Auditor  *audit.Service

	// Form protection; CSRF is off when the secret is empty
	CSRFSecret    []byte
	SecureCookies bool

	// Flash messages (optional)
	Sessions *sessions.Manager

	// Read-only mode (optional)
	ReadOnly *readonly.Middleware

	// Application info
	Version string
}
