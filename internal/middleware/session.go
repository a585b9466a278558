package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"stockroom/internal/auth"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/session"
)

const (
	snapshotKey  = "session_snapshot"
	sessionIDKey = "session_id"
)

// ResolveSession loads the session snapshot referenced by the request cookie
// into the echo context. It never fails the request: an absent, unknown or
// expired session just leaves the request anonymous. Store outages are
// treated the same way so a Redis blip does not take the whole site down.
func ResolveSession(store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			sess, err := store.Get(c.Request().Context(), cookie.Value)
			if err != nil {
				c.Logger().Errorf("resolve session: %v", err)
				return next(c)
			}
			if sess == nil {
				return next(c)
			}

			c.Set(snapshotKey, &sess.Snapshot)
			c.Set(sessionIDKey, sess.ID)
			return next(c)
		}
	}
}

// SnapshotFrom returns the request's identity snapshot, if any.
func SnapshotFrom(c echo.Context) (*session.Snapshot, bool) {
	snap, ok := c.Get(snapshotKey).(*session.Snapshot)
	return snap, ok && snap != nil
}

// SessionIDFrom returns the cookie-bound session ID, if any.
func SessionIDFrom(c echo.Context) (string, bool) {
	id, ok := c.Get(sessionIDKey).(string)
	return id, ok && id != ""
}

// RequireSession gates page routes: anonymous requests are redirected to the
// login form instead of proceeding.
func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := SnapshotFrom(c); !ok {
			return c.Redirect(http.StatusFound, "/auth/login")
		}
		return next(c)
	}
}

// RequireGuest redirects already-authenticated users away from the login and
// registration forms.
func RequireGuest(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := SnapshotFrom(c); ok {
			return c.Redirect(http.StatusFound, "/products")
		}
		return next(c)
	}
}

// RequireRole gates routes behind a role on top of RequireSession.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap, ok := SnapshotFrom(c)
			if !ok {
				return c.Redirect(http.StatusFound, "/auth/login")
			}
			if snap.Role != role {
				return c.String(http.StatusForbidden, apperrors.ErrForbidden.Error())
			}
			return next(c)
		}
	}
}

// RequireAPIAuth gates mutating JSON API routes. A valid session cookie is
// authoritative; failing that, a bearer API token is accepted so the
// storefront SPA can authenticate without cookies.
func RequireAPIAuth(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := SnapshotFrom(c); ok {
				return next(c)
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				return unauthenticatedJSON(c)
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				return unauthenticatedJSON(c)
			}

			c.Set(snapshotKey, &session.Snapshot{
				UserID:   claims.UserID,
				Username: claims.Username,
				Role:     claims.Role,
			})
			return next(c)
		}
	}
}

func unauthenticatedJSON(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: apperrors.ErrUnauthenticated.Error(),
	})
}
