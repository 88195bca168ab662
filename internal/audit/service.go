package audit

import (
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	dbaudit "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// DefaultRetentionDays applies when no positive retention is configured.
const DefaultRetentionDays = 30

// RetentionPeriod converts a retention in days into a duration.
func RetentionPeriod(days int) time.Duration {
	if days <= 0 {
		days = DefaultRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// EventStore persists and queries audit events.
type EventStore interface {
	Record(event *entities.AuditEvent) error
	Find(q dbaudit.Query) ([]entities.AuditEvent, int64, error)
	PurgeBefore(cutoff time.Time) (int64, error)
}

// Origin describes the request a mutation came from.
type Origin struct {
	RequestID string
	IPAddress string
}

// Service provides high-level audit logging functionality.
type Service struct {
	store EventStore
	wg    sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(store EventStore) *Service {
	return &Service{store: store}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.store.Record(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.store.Record(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until all pending asynchronous events are written.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LogCreate records a book being added to the catalog.
func (s *Service) LogCreate(book entities.Book, origin Origin) {
	event := bookEvent(entities.AuditEventCreate, "book_create", "Added book: "+book.Title, book, origin)
	event.Metadata = marshalMetadata(map[string]any{
		"author": book.Author,
		"rating": book.Rating,
	})
	s.LogAsync(event)
}

// LogRatingUpdate records a rating change.
func (s *Service) LogRatingUpdate(book entities.Book, newRating float64, origin Origin) {
	description := "Updated rating of " + book.Title + " to " + strconv.FormatFloat(newRating, 'f', -1, 64)
	event := bookEvent(entities.AuditEventUpdate, "book_update", description, book, origin)
	event.Metadata = marshalMetadata(map[string]any{
		"old_rating": book.Rating,
		"new_rating": newRating,
	})
	s.LogAsync(event)
}

// LogDelete records a book being removed from the catalog.
func (s *Service) LogDelete(book entities.Book, origin Origin) {
	s.LogAsync(bookEvent(entities.AuditEventDelete, "book_delete", "Deleted book: "+book.Title, book, origin))
}

// LogFailure records a mutation that the storage layer rejected.
func (s *Service) LogFailure(eventType entities.AuditEventType, action string, book entities.Book, origin Origin, err error) {
	event := bookEvent(eventType, action, "Failed "+action+": "+book.Title, book, origin)
	event.Status = entities.AuditStatusFailed
	event.ErrorMsg = truncate(err.Error(), 500)
	s.LogAsync(event)
}

// Events returns one page of events matching q, newest first.
func (s *Service) Events(q dbaudit.Query) ([]entities.AuditEvent, int64, error) {
	return s.store.Find(q)
}

// PurgeBefore removes events recorded before cutoff.
func (s *Service) PurgeBefore(cutoff time.Time) (int64, error) {
	return s.store.PurgeBefore(cutoff)
}

func bookEvent(eventType entities.AuditEventType, action, description string, book entities.Book, origin Origin) *entities.AuditEvent {
	event := &entities.AuditEvent{
		EventType:   eventType,
		Action:      action,
		Description: truncate(description, 500),
		BookTitle:   truncate(book.Title, 250),
		RequestID:   origin.RequestID,
		IPAddress:   origin.IPAddress,
		Status:      entities.AuditStatusSuccess,
	}
	if book.ID != 0 {
		id := book.ID
		event.BookID = &id
	}
	return event
}

func marshalMetadata(metadata map[string]any) string {
	mdBytes, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(mdBytes)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
