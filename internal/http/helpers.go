package http

import (
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request plain-text response.
func respondBadRequest(c *gin.Context, message string) {
	c.String(http.StatusBadRequest, message)
}

// respondNotFound sends a 404 Not Found plain-text response.
func respondNotFound(c *gin.Context, message string) {
	c.String(http.StatusNotFound, message)
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.String(http.StatusInternalServerError, "internal server error")
}

// redirectToList answers a successful form submission.
func redirectToList(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
}

// --- Parameter Parsing ---

// parseIDParam extracts an unsigned integer ID from URL parameters.
// Callers answer a failure with their own not-found text, since only
// integer ids match the catalog routes.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// requireFormValue reads a form field that must be present. An empty value
// is accepted; a missing key answers 400.
func requireFormValue(c *gin.Context, key string) (string, bool) {
	value, ok := c.GetPostForm(key)
	if !ok {
		respondBadRequest(c, "missing form field: "+key)
		return "", false
	}
	return value, true
}

// parseRatingValue converts a submitted rating, answering 400 when it is not a number.
func parseRatingValue(c *gin.Context, value string) (float64, bool) {
	rating, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
		respondBadRequest(c, "invalid rating: "+value)
		return 0, false
	}
	return rating, true
}

// parseQueryInt reads an optional positive integer query parameter.
func parseQueryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
