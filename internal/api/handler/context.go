package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/realworld/conduit-api/internal/api/middleware"
	"github.com/realworld/conduit-api/internal/core/domain"
)

// currentUser returns the user attached by middleware.Authenticate. It does
// no presence check of its own: routes using it must sit behind
// middleware.RequireUser, otherwise it may return nil.
func currentUser(c echo.Context) *domain.User {
	u, _ := middleware.PrincipalFrom(c).User()
	return u
}

// currentUserID projects the id of the current user; 0 when none is attached.
func currentUserID(c echo.Context) int64 {
	if u := currentUser(c); u != nil {
		return u.ID
	}
	return 0
}

// UserHandlerFunc is a handler that receives the resolved user explicitly.
type UserHandlerFunc func(c echo.Context, user *domain.User) error

// WithCurrentUser adapts h to an echo.HandlerFunc by passing it the current user.
func WithCurrentUser(h UserHandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h(c, currentUser(c))
	}
}
