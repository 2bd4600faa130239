package middleware

// session.go resolves the opaque shopper session identifier that scopes
// capacity holds. Shoppers are anonymous: the id comes from an
// X-Session-ID header (API clients) or the exp_session cookie (browsers),
// and a fresh UUID is minted and set as a cookie when neither is present.
// Handlers read the resolved id via SessionID(c).

import (
    "net/http"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
)

// sessionCookieName is the browser cookie carrying the shopper session id.
const sessionCookieName = "exp_session"

// sessionContextKey is the echo context key the resolved id is stored under.
const sessionContextKey = "session_id"

// EnsureSession returns a middleware that guarantees every request
// carries a session identifier.  Existing ids are passed through
// unchanged so a shopper keeps their holds across requests.
func EnsureSession() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            sid := c.Request().Header.Get("X-Session-ID")
            if sid == "" {
                if ck, err := c.Cookie(sessionCookieName); err == nil {
                    sid = ck.Value
                }
            }
            if sid == "" {
                sid = uuid.NewString()
                c.SetCookie(&http.Cookie{
                    Name:     sessionCookieName,
                    Value:    sid,
                    Path:     "/",
                    Expires:  time.Now().Add(24 * time.Hour),
                    HttpOnly: true,
                    SameSite: http.SameSiteLaxMode,
                })
            }
            c.Set(sessionContextKey, sid)
            return next(c)
        }
    }
}

// SessionID returns the session identifier resolved by EnsureSession, or
// the empty string when the middleware did not run.
func SessionID(c echo.Context) string {
    if v, ok := c.Get(sessionContextKey).(string); ok {
        return v
    }
    return ""
}
