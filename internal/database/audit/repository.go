// Package audit stores the catalog's audit trail in the audit_events table.
package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	// DefaultLimit applies when a query asks for no limit.
	DefaultLimit = 50
	// MaxLimit caps a single page of events.
	MaxLimit = 500
)

// Query selects audit events, newest first. Zero-valued filters match everything.
type Query struct {
	Limit  int
	Offset int
	BookID *uint
	Action string
}

func (q Query) normalized() Query {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record saves an audit event, stamping it with the current time if unset.
func (r *Repository) Record(event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// Find returns one page of matching events and the total number of matches.
func (r *Repository) Find(q Query) ([]entities.AuditEvent, int64, error) {
	q = q.normalized()

	scope := r.db.Model(&entities.AuditEvent{})
	if q.BookID != nil {
		scope = scope.Where("book_id = ?", *q.BookID)
	}
	if q.Action != "" {
		scope = scope.Where("action = ?", q.Action)
	}

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	events := []entities.AuditEvent{}
	err := scope.Order("created_at DESC, id DESC").Limit(q.Limit).Offset(q.Offset).Find(&events).Error
	return events, total, err
}

// PurgeBefore deletes every event recorded before cutoff and reports how many went.
func (r *Repository) PurgeBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
