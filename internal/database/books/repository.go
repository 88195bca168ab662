// Package books provides database operations for the book catalog.
//
// Lookups report a miss as a nil book with a nil error. Mutations report a
// missing row as ErrBookNotFound and a uniqueness clash on id or title as
// ErrDuplicateBook.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.FindByID(9)
package books

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

var (
	// ErrBookNotFound is returned when a mutation targets a book that does not exist.
	ErrBookNotFound = errors.New("book not found")

	// ErrDuplicateBook is returned when an insert or update would violate the
	// uniqueness of the book id or title.
	ErrDuplicateBook = errors.New("book already exists")
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID retrieves a book by its ID. Returns nil, nil when no book matches.
func (r *Repository) FindByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find book %d: %w", id, err)
	}
	return &book, nil
}

// FindByTitle retrieves a book by its exact title. Returns nil, nil when no book matches.
func (r *Repository) FindByTitle(title string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("title = ?", title).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find book %q: %w", title, err)
	}
	return &book, nil
}

// ListAll retrieves every book in storage order.
func (r *Repository) ListAll() ([]entities.Book, error) {
	books := []entities.Book{}
	if err := r.db.Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Count returns the number of books in the catalog.
func (r *Repository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&entities.Book{}).Count(&total).Error
	return total, err
}

// Insert creates a new book. A zero ID lets the database assign one; the
// assigned ID is written back to book.
func (r *Repository) Insert(book *entities.Book) error {
	if err := r.db.Create(book).Error; err != nil {
		return wrapWriteError("insert book", err)
	}
	return nil
}

// Update overwrites title, author and rating of the book with book.ID.
func (r *Repository) Update(book *entities.Book) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", book.ID).Updates(map[string]any{
		"title":  book.Title,
		"author": book.Author,
		"rating": book.Rating,
	})
	if result.Error != nil {
		return wrapWriteError("update book", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// UpdateRating changes only the rating of the book with the given ID.
func (r *Repository) UpdateRating(id uint, rating float64) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Update("rating", rating)
	if result.Error != nil {
		return fmt.Errorf("update rating: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Delete removes the book with the given ID and returns it.
func (r *Repository) Delete(id uint) (*entities.Book, error) {
	book, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return book, r.remove(book)
}

// DeleteByTitle removes the book with the given title and returns it.
func (r *Repository) DeleteByTitle(title string) (*entities.Book, error) {
	book, err := r.FindByTitle(title)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return book, r.remove(book)
}

func (r *Repository) remove(book *entities.Book) error {
	result := r.db.Delete(&entities.Book{}, book.ID)
	if result.Error != nil {
		return fmt.Errorf("delete book %d: %w", book.ID, result.Error)
	}
	// Lost a race with another delete of the same row.
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

func wrapWriteError(op string, err error) error {
	if IsConstraintViolation(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicateBook)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsConstraintViolation reports whether err comes from a unique or primary key
// constraint of the underlying SQLite database.
func IsConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrDuplicateBook) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
