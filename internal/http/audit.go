package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/audit"
	dbaudit "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// AuditEventsResponse is the body of GET /api/audit.
type AuditEventsResponse struct {
	Events []entities.AuditEvent `json:"events"`
	Total  int64                 `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

type AuditController struct {
	service *audit.Service
}

func NewAuditController(service *audit.Service) *AuditController {
	return &AuditController{service: service}
}

// Events lists the most recent audit events, newest first.
// GET /api/audit?limit=50&offset=0&book_id=9&action=book_delete
func (ac *AuditController) Events(c *gin.Context) {
	q := dbaudit.Query{
		Limit:  parseQueryInt(c, "limit", dbaudit.DefaultLimit),
		Offset: parseQueryInt(c, "offset", 0),
		Action: c.Query("action"),
	}
	if raw := c.Query("book_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book_id"})
			return
		}
		bookID := uint(id)
		q.BookID = &bookID
	}
	if q.Limit > dbaudit.MaxLimit {
		q.Limit = dbaudit.MaxLimit
	}

	events, total, err := ac.service.Events(q)
	if err != nil {
		respondInternalError(c, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, AuditEventsResponse{
		Events: events,
		Total:  total,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
}
