package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	ContextSessionID = "session_id"

	sessionCookie = "storefront_session"
)

// Session assigns every visitor a session id cookie. The cart and the
// checkout session are keyed by it, so anonymous browsing gets a cart
// before login.
func Session() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessionCookie)
			if err != nil || cookie.Value == "" {
				cookie = &http.Cookie{
					Name:     sessionCookie,
					Value:    uuid.NewString(),
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				}
				c.SetCookie(cookie)
			}
			c.Set(ContextSessionID, cookie.Value)
			return next(c)
		}
	}
}

func SessionID(c echo.Context) string {
	id, _ := c.Get(ContextSessionID).(string)
	return id
}
