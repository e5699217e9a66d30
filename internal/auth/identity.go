package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskhive/internal/model"
	"taskhive/internal/repository"
)

const (
	// ContextUsernameKey is where the JWT middleware stores the verified username.
	ContextUsernameKey = "username"
	// ContextUserKey is where the resolved user record is stored.
	ContextUserKey = "currentUser"
)

// ResolveUser returns middleware that resolves the verified token's username
// to a full user record. Each request re-queries the store; there is no
// caching across requests. A username without a matching record (e.g. a
// deleted account) is treated as unauthenticated.
func ResolveUser(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username, ok := c.Get(ContextUsernameKey).(string)
			if !ok || username == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := users.FindByUsername(c.Request().Context(), username)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown identity")
			}

			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user resolved by ResolveUser for this request.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(ContextUserKey).(*model.User)
	return user, ok
}
