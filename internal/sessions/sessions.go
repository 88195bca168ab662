// Package sessions keeps short-lived per-browser state for the catalog UI,
// which today means flash messages shown after a form redirect.
package sessions

import (
	"context"
	"database/sql"
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

const (
	sessionKeyFlash = "flash"

	// CookieName is the name of the session cookie.
	CookieName = "bookshelf_session"

	// DefaultLifetime is used when no lifetime is configured.
	DefaultLifetime = 24 * time.Hour
)

func init() {
	gob.Register([]string{})
}

// Manager wraps scs.SessionManager with flash helpers.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a session manager backed by the catalog's SQLite
// database. The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewManager(sqlDB *sql.DB, lifetime time.Duration, secureCookies bool) (*Manager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, fmt.Errorf("create sessions table: %w", err)
	}

	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = lifetime

	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = secureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}, nil
}

// Flash queues a message for the next rendered page.
func (m *Manager) Flash(ctx context.Context, message string) {
	if message == "" {
		return
	}
	existing, _ := m.Get(ctx, sessionKeyFlash).([]string)
	m.Put(ctx, sessionKeyFlash, append(existing, message))
}

// PopFlashes returns and clears all queued messages.
func (m *Manager) PopFlashes(ctx context.Context) []string {
	messages, _ := m.Pop(ctx, sessionKeyFlash).([]string)
	return messages
}
