package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/sessions"
)

const (
	msgBookNotFound  = "This book was not found"
	msgEditNotFound  = "Book not found"
	pageTitleCatalog = "Book Collection"
)

// BookStore defines the catalog operations the handlers need.
type BookStore interface {
	FindByID(id uint) (*entities.Book, error)
	ListAll() ([]entities.Book, error)
	Insert(book *entities.Book) error
	UpdateRating(id uint, rating float64) error
	Delete(id uint) (*entities.Book, error)
	DeleteByTitle(title string) (*entities.Book, error)
}

type BooksController struct {
	store    BookStore
	auditor  *audit.Service
	sessions *sessions.Manager
}

// NewBooksController wires the catalog handlers. auditor and sessionManager are optional.
func NewBooksController(store BookStore, auditor *audit.Service, sessionManager *sessions.Manager) *BooksController {
	return &BooksController{
		store:    store,
		auditor:  auditor,
		sessions: sessionManager,
	}
}

// RegisterRoutes mounts the catalog pages and form actions.
func (bc *BooksController) RegisterRoutes(router gin.IRouter) {
	router.GET("/", bc.List)
	router.GET("/add_form", bc.AddForm)
	router.POST("/add", bc.Add)
	router.GET("/delete_form", bc.DeleteForm)
	router.POST("/delete_book", bc.DeleteByTitle)
	router.POST("/delete/:id", bc.DeleteByID)
	router.GET("/edit_form/:id", bc.EditForm)
	router.POST("/edit_rating/:id", bc.EditRating)
	router.GET("/check_db", bc.CheckDB)
}

// List renders every book with delete buttons and edit links.
// GET /
func (bc *BooksController) List(c *gin.Context) {
	all, err := bc.store.ListAll()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	page := bc.newPage(c, pageTitleCatalog)
	page.Books = all
	c.HTML(http.StatusOK, "books", page)
}

// AddForm renders the add-book form.
// GET /add_form
func (bc *BooksController) AddForm(c *gin.Context) {
	c.HTML(http.StatusOK, "add_form", bc.newPage(c, "Add a book"))
}

// Add inserts a book from the submitted form.
// POST /add
func (bc *BooksController) Add(c *gin.Context) {
	title, ok := requireFormValue(c, "title")
	if !ok {
		return
	}
	author, ok := requireFormValue(c, "author")
	if !ok {
		return
	}
	ratingValue, ok := requireFormValue(c, "rating")
	if !ok {
		return
	}
	rating, ok := parseRatingValue(c, ratingValue)
	if !ok {
		return
	}

	book := &entities.Book{Title: title, Author: author, Rating: rating}
	if err := bc.store.Insert(book); err != nil {
		if bc.auditor != nil {
			bc.auditor.LogFailure(entities.AuditEventCreate, "book_create", *book, requestOrigin(c), err)
		}
		respondInternalError(c, err, "add book")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogCreate(*book, requestOrigin(c))
	}
	bc.flash(c, "Added "+book.Title)
	redirectToList(c)
}

// DeleteForm renders the delete-by-title form.
// GET /delete_form
func (bc *BooksController) DeleteForm(c *gin.Context) {
	c.HTML(http.StatusOK, "delete_form", bc.newPage(c, "Delete a book"))
}

// DeleteByTitle removes the book with the submitted title.
// POST /delete_book
func (bc *BooksController) DeleteByTitle(c *gin.Context) {
	title, ok := requireFormValue(c, "title")
	if !ok {
		return
	}

	book, err := bc.store.DeleteByTitle(title)
	bc.finishDelete(c, book, err)
}

// DeleteByID removes a book by its id.
// POST /delete/:id
func (bc *BooksController) DeleteByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondNotFound(c, msgBookNotFound)
		return
	}

	book, err := bc.store.Delete(id)
	bc.finishDelete(c, book, err)
}

func (bc *BooksController) finishDelete(c *gin.Context, book *entities.Book, err error) {
	if errors.Is(err, books.ErrBookNotFound) {
		respondNotFound(c, msgBookNotFound)
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogDelete(*book, requestOrigin(c))
	}
	bc.flash(c, "Deleted "+book.Title)
	redirectToList(c)
}

// EditForm renders the rating form pre-filled with the current rating.
// GET /edit_form/:id
func (bc *BooksController) EditForm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondNotFound(c, msgEditNotFound)
		return
	}

	book, err := bc.store.FindByID(id)
	if err != nil {
		respondInternalError(c, err, "load book")
		return
	}
	if book == nil {
		respondNotFound(c, msgEditNotFound)
		return
	}

	page := bc.newPage(c, "Edit rating")
	page.Book = book
	c.HTML(http.StatusOK, "edit_form", page)
}

// EditRating stores a new rating for a book.
// POST /edit_rating/:id
func (bc *BooksController) EditRating(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		respondNotFound(c, msgEditNotFound)
		return
	}
	ratingValue, ok := requireFormValue(c, "rating")
	if !ok {
		return
	}

	book, err := bc.store.FindByID(id)
	if err != nil {
		respondInternalError(c, err, "load book")
		return
	}
	if book == nil {
		respondNotFound(c, msgEditNotFound)
		return
	}

	rating, ok := parseRatingValue(c, ratingValue)
	if !ok {
		return
	}

	if err := bc.store.UpdateRating(id, rating); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, msgEditNotFound)
			return
		}
		respondInternalError(c, err, "update rating")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogRatingUpdate(*book, rating, requestOrigin(c))
	}
	bc.flash(c, "Updated rating of "+book.Title)
	redirectToList(c)
}

// CheckDB dumps every row as "<id>: <title> by <author> (Rating: <rating>)" joined with <br>.
// GET /check_db
func (bc *BooksController) CheckDB(c *gin.Context) {
	all, err := bc.store.ListAll()
	if err != nil {
		respondInternalError(c, err, "check db")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(renderCheckDB(all)))
}

func (bc *BooksController) flash(c *gin.Context, message string) {
	if bc.sessions != nil {
		bc.sessions.Flash(c.Request.Context(), message)
	}
}
