package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// SeedBook is inserted on startup unless a book with its ID already exists.
var SeedBook = entities.Book{
	ID:     9,
	Title:  "The 5 People You Meet in Heaven",
	Author: "Mitch Albom",
	Rating: 9.0,
}

// Titles fixed up on startup.
const (
	LegacyTitle    = "Harry Potter"
	CorrectedTitle = "Harry Potter and the Chamber of Secrets"
)

type Database struct {
	DB *gorm.DB

	books *books.Repository
	audit *audit.Repository
}

type options struct {
	logLevel logger.LogLevel
}

// Option customizes how the database is opened.
type Option func(*options)

// WithLogLevel sets the GORM SQL log level (default: warn).
func WithLogLevel(level logger.LogLevel) Option {
	return func(o *options) {
		o.logLevel = level
	}
}

// ParseLogLevel maps a config value to a GORM log level. Unknown values map to warn.
func ParseLogLevel(value string) logger.LogLevel {
	switch value {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// NewDatabase opens the catalog database, creates the schema if it is absent
// and applies the startup bootstrap. Both steps are idempotent.
func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	o := options{logLevel: logger.Warn}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(o.logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Book{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{
		DB:    db,
		books: books.NewRepository(db),
		audit: audit.NewRepository(db),
	}

	if err := database.bootstrap(); err != nil {
		return nil, fmt.Errorf("failed to bootstrap catalog: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies the underlying connection is alive.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Books returns the book repository bound to this database.
func (d *Database) Books() *books.Repository {
	return d.books
}

// Audit returns the audit event repository bound to this database.
func (d *Database) Audit() *audit.Repository {
	return d.audit
}

func (d *Database) bootstrap() error {
	if err := d.seedBook(); err != nil {
		return err
	}
	return d.fixLegacyTitle()
}

func (d *Database) seedBook() error {
	existing, err := d.books.FindByID(SeedBook.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Printf("Seed book %d already exists", SeedBook.ID)
		return nil
	}

	seed := SeedBook
	if err := d.books.Insert(&seed); err != nil {
		// The seed title may already be taken by a book with another id.
		if errors.Is(err, books.ErrDuplicateBook) {
			log.Printf("WARNING: seed book %q not added: %v", seed.Title, err)
			return nil
		}
		return fmt.Errorf("failed to create seed book: %w", err)
	}
	log.Printf("Created seed book: %s", seed.Title)
	d.logBootstrap("book_seed", "Added seed book: "+seed.Title, &seed)
	return nil
}

func (d *Database) fixLegacyTitle() error {
	book, err := d.books.FindByTitle(LegacyTitle)
	if err != nil {
		return err
	}
	if book == nil {
		log.Printf("No book titled %q to rename", LegacyTitle)
		return nil
	}

	book.Title = CorrectedTitle
	if err := d.books.Update(book); err != nil {
		if errors.Is(err, books.ErrDuplicateBook) {
			log.Printf("WARNING: %q not renamed, %q already exists", LegacyTitle, CorrectedTitle)
			return nil
		}
		return fmt.Errorf("failed to rename %q: %w", LegacyTitle, err)
	}
	log.Printf("Renamed %q to %q", LegacyTitle, CorrectedTitle)
	d.logBootstrap("book_rename", "Renamed "+LegacyTitle+" to "+CorrectedTitle, book)
	return nil
}

func (d *Database) logBootstrap(action, description string, book *entities.Book) {
	id := book.ID
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventBootstrap,
		Action:      action,
		Description: description,
		BookID:      &id,
		BookTitle:   book.Title,
		Status:      entities.AuditStatusSuccess,
	}
	if err := d.audit.Record(event); err != nil {
		log.Printf("Failed to log audit event: %v", err)
	}
}
