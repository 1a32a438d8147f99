package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avanti-store/catalog-backend/internal/models"
	"github.com/avanti-store/catalog-backend/internal/session"
	"github.com/avanti-store/catalog-backend/pkg/logging"
)

const sessionContextKey = "session"

// Guard resolves the session cookie and protects admin-only routes.
type Guard struct {
	Sessions *session.Manager
}

// LoadSession resolves the token cookie into a session and re-stamps the
// cookie, giving every authenticated request the full inactivity window
// again. A missing or stale cookie is not an error here.
func (g *Guard) LoadSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ck, err := c.Cookie(session.CookieName)
		if err != nil || ck.Value == "" {
			return next(c)
		}

		ctx := c.Request().Context()
		sess, err := g.Sessions.Current(ctx, ck.Value)
		if err != nil {
			logging.FromContext(ctx).Error("session lookup failed", "error", err)
			return next(c)
		}
		if sess == nil {
			c.SetCookie(session.ExpiredCookie())
			return next(c)
		}

		c.SetCookie(session.Cookie(ck.Value, g.Sessions.TTL()))
		c.Set(sessionContextKey, sess)
		return next(c)
	}
}

// RequireAdmin rejects callers without an admin session. API callers get a
// JSON error, page callers a redirect or an HTML fragment.
func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := CurrentSession(c)
		apiCall := strings.HasPrefix(c.Request().URL.Path, "/api/")

		if sess == nil {
			if apiCall {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}
			return c.Redirect(http.StatusFound, "/")
		}
		if sess.Role != models.RoleAdmin {
			if apiCall {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return c.HTML(http.StatusForbidden, "<h1>403 - Forbidden</h1>")
		}
		return next(c)
	}
}

// CurrentSession returns the session the loader attached, or nil.
func CurrentSession(c echo.Context) *session.Session {
	if v := c.Get(sessionContextKey); v != nil {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}
