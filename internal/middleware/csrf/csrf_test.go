package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Use(Middleware(Config{}))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/x", ok)
	e.POST("/x", ok)
	return e
}

func TestBearerAndAnonymousRequestsSkip(t *testing.T) {
	e := newEcho()

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer abc")
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "abc"})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCookieSessionNeedsToken(t *testing.T) {
	e := newEcho()
	auth := &http.Cookie{Name: "accessToken", Value: "abc"}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(auth)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	post := func(header string) int {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.Host = "example.com"
		req.Header.Set("Origin", "http://example.com")
		req.AddCookie(auth)
		req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
		if header != "" {
			req.Header.Set("X-CSRF-Token", header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, post(""))
	assert.Equal(t, http.StatusForbidden, post("wrong"))
	assert.Equal(t, http.StatusOK, post(token))
}

func TestCrossOriginRejected(t *testing.T) {
	e := newEcho()

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Host = "example.com"
	req.Header.Set("Origin", "http://evil.test")
	req.Header.Set("X-CSRF-Token", "t")
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "abc"})
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "t"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
