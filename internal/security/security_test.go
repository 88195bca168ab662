package security

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSecret = []byte("test-secret-key-32-bytes-long!!!")

func TestHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(HeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	csp := rr.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "style-src 'self' 'unsafe-inline'")
	assert.Contains(t, csp, "frame-ancestors 'none'")
	assert.NotEmpty(t, rr.Header().Get("Permissions-Policy"))
}

func newCSRFRouter(called *bool) *gin.Engine {
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, CSRFToken(c))
	})
	router.POST("/form", func(c *gin.Context) {
		*called = true
		c.Status(http.StatusOK)
	})
	return router
}

func TestCSRFMiddleware_AllowsGET(t *testing.T) {
	var called bool
	router := newCSRFRouter(&called)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/form", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Body.String(), "token should be exposed to handlers")
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	var called bool
	router := newCSRFRouter(&called)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/form", nil))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, called, "handler must not run after a CSRF failure")
}

func TestCSRFMiddleware_JSONError(t *testing.T) {
	var called bool
	router := newCSRFRouter(&called)

	req := httptest.NewRequest(http.MethodPost, "/form", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "CSRF token invalid or missing")
}

func TestCSRFMiddleware_AcceptsValidToken(t *testing.T) {
	var called bool
	router := newCSRFRouter(&called)

	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, getRR.Code)
	token := getRR.Body.String()

	form := url.Values{CSRFFieldName: {token}}
	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range getRR.Result().Cookies() {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, called)
}

func TestCSRFField(t *testing.T) {
	router := gin.New()
	router.GET("/none", func(c *gin.Context) {
		c.String(http.StatusOK, string(CSRFField(c)))
	})
	router.GET("/some", func(c *gin.Context) {
		c.Set(ContextKeyCSRFToken, `a"b`)
		c.String(http.StatusOK, string(CSRFField(c)))
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/none", nil))
	assert.Empty(t, rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/some", nil))
	assert.Contains(t, rr.Body.String(), `name="gorilla.csrf.Token"`)
	assert.Contains(t, rr.Body.String(), `value="a&#34;b"`)
}

func TestSecrets(t *testing.T) {
	generated, err := GenerateSecret()
	require.NoError(t, err)
	assert.Len(t, generated, 64)
	assert.Len(t, DecodeSecret(generated), 32)

	assert.Equal(t, []byte("not-hex"), DecodeSecret("not-hex"))
}
