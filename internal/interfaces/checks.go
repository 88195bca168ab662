package interfaces

// Compile-time checks that concrete types satisfy the interfaces their
// consumers declare.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/audit"
	dbaudit "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// BookStore implementations
var _ http.BookStore = (*books.Repository)(nil)

// EventStore implementations
var _ audit.EventStore = (*dbaudit.Repository)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

// AuditPurger implementations
var _ tasks.AuditPurger = (*audit.Service)(nil)
var _ tasks.AuditPurger = (*dbaudit.Repository)(nil)
