package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database"
)

const (
	healthOK            = "ok"
	healthNotConfigured = "not configured"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
	Books   *int64            `json:"books,omitempty"`
}

// catalogProbe is the slice of the database the health endpoint needs.
type catalogProbe interface {
	Ping() error
	CountBooks() (int64, error)
}

type databaseProbe struct{ db *database.Database }

func (p databaseProbe) Ping() error                { return p.db.Ping() }
func (p databaseProbe) CountBooks() (int64, error) { return p.db.Books().Count() }

type HealthController struct {
	probe   catalogProbe
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	hc := &HealthController{version: version}
	if db != nil {
		hc.probe = databaseProbe{db: db}
	}
	return hc
}

// probeCatalog returns the database check result and, when reachable, the
// number of stored books.
func (h *HealthController) probeCatalog() (string, *int64, bool) {
	if h.probe == nil {
		return healthNotConfigured, nil, true
	}
	if err := h.probe.Ping(); err != nil {
		return "error: " + err.Error(), nil, false
	}
	count, err := h.probe.CountBooks()
	if err != nil {
		return healthOK, nil, true
	}
	return healthOK, &count, true
}

// Status reports database connectivity and the catalog size.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	dbCheck, books, healthy := h.probeCatalog()

	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  map[string]string{"database": dbCheck},
		Books:   books,
	}
	code := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.IndentedJSON(code, resp)
}

// Ping is a liveness probe.
// GET /ping
func (h *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
