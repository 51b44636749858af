package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionCookieName identifies the editing session.
const SessionCookieName = "planner_session"

// Session returns middleware that scopes each request to an editing
// session. An existing session cookie is reused; otherwise a new key is
// issued. The key is stored on the context under "session_key".
func Session(ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := ""
			if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				key = cookie.Value
			}
			if key == "" {
				key = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    key,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set("session_key", key)
			return next(c)
		}
	}
}
