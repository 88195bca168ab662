package http

import (
	"embed"
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/readonly"
	"github.com/mrlokans/bookshelf/internal/security"
)

//go:embed templates/*.html
var templatesFS embed.FS

// pageData is the common payload of every rendered page.
type pageData struct {
	Title     string
	Flashes   []string
	CSRFField template.HTML
	ReadOnly  bool

	Books []entities.Book
	Book  *entities.Book
}

// loadTemplates parses the embedded page templates.
func loadTemplates() *template.Template {
	funcMap := template.FuncMap{
		"rating": entities.FormatRating,
	}
	return template.Must(template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html"))
}

// renderCheckDB joins every book line with <br>. Field values are escaped.
func renderCheckDB(books []entities.Book) string {
	var sb strings.Builder
	for i, book := range books {
		if i > 0 {
			sb.WriteString("<br>")
		}
		sb.WriteString(template.HTMLEscapeString(book.Summary()))
	}
	return sb.String()
}

// newPage fills the per-request parts of pageData.
func (bc *BooksController) newPage(c *gin.Context, title string) pageData {
	page := pageData{
		Title:     title,
		CSRFField: security.CSRFField(c),
		ReadOnly:  readonly.IsReadOnly(c),
	}
	if bc.sessions != nil {
		page.Flashes = bc.sessions.PopFlashes(c.Request.Context())
	}
	return page
}
