package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/model"
	"storefront/internal/service"
)

// Capability is the access level a route declares. The route table maps
// every path to one of these; the guard evaluates it centrally before
// any handler runs.
type Capability int

const (
	CapNone Capability = iota
	CapAuthenticated
	CapAdmin
)

const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"

	loginPath = "/login"
)

// Decision is the guard's verdict, returned as data: either the
// request may proceed, or it is redirected.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

type Guard struct {
	auth       service.AuthService
	cookieName string
}

func NewGuard(auth service.AuthService, cookieName string) *Guard {
	return &Guard{
		auth:       auth,
		cookieName: cookieName,
	}
}

// Evaluate checks the request's token against the required capability.
// Unauthorized or under-privileged requests are redirected to the login
// view rather than rejected with an error page.
func (g *Guard) Evaluate(c echo.Context, cap Capability) Decision {
	if cap == CapNone {
		return Decision{Allowed: true}
	}

	token := g.token(c)
	if token == "" {
		return Decision{RedirectTo: loginPath}
	}

	claims, err := g.auth.VerifyToken(token)
	if err != nil {
		return Decision{RedirectTo: loginPath}
	}

	if cap == CapAdmin && claims.Role != model.RoleAdmin {
		return Decision{RedirectTo: loginPath}
	}

	c.Set(ContextUserID, claims.Subject)
	c.Set(ContextUserRole, claims.Role)
	return Decision{Allowed: true}
}

// Require wraps a handler with the capability check.
func (g *Guard) Require(cap Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := g.Evaluate(c, cap)
			if !decision.Allowed {
				return c.Redirect(http.StatusFound, decision.RedirectTo)
			}
			return next(c)
		}
	}
}

func (g *Guard) token(c echo.Context) string {
	if cookie, err := c.Cookie(g.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func UserID(c echo.Context) string {
	id, _ := c.Get(ContextUserID).(string)
	return id
}
