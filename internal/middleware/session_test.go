package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func runSession(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	h := EnsureSession()(func(c echo.Context) error {
		seen = SessionID(c)
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, h(c))
	return seen, rec
}

func TestEnsureSessionMintsID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sid, rec := runSession(t, req)

	assert.NotEmpty(t, sid)
	// A fresh id must be handed back as a cookie so the shopper keeps it.
	cookies := rec.Result().Cookies()
	found := false
	for _, ck := range cookies {
		if ck.Name == sessionCookieName {
			found = true
			assert.Equal(t, sid, ck.Value)
		}
	}
	assert.True(t, found)
}

func TestEnsureSessionPrefersHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-ID", "sess-abc")
	sid, rec := runSession(t, req)

	assert.Equal(t, "sess-abc", sid)
	assert.Empty(t, rec.Result().Cookies())
}

func TestEnsureSessionReadsCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-cookie"})
	sid, _ := runSession(t, req)

	assert.Equal(t, "sess-cookie", sid)
}

func TestSessionIDWithoutMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Empty(t, SessionID(c))
}
