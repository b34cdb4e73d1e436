package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RoleLookup resolves the role memberships of an authenticated username.
// The bearer token carries no role claim, so membership always comes from
// the store.
type RoleLookup func(ctx context.Context, username string) ([]string, error)

// RequireRole gates a route to users holding at least one of the allowed
// roles. Must run after Auth.
func RequireRole(lookup RoleLookup, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username, _ := c.Get("username").(string)
			if username == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			roles, err := lookup(c.Request().Context(), username)
			if err != nil {
				return err
			}

			for _, r := range roles {
				if _, ok := allowed[r]; ok {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
