package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/realworld/conduit-api/internal/api/metrics"
	"github.com/realworld/conduit-api/internal/core/domain"
)

// RequireUser lets the request through only when Authenticate attached a user.
// Anonymous and unevaluated principals fail with domain.ErrUnauthorized, which
// the HTTP error handler renders as 401.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := PrincipalFrom(c).User(); !ok {
				metrics.AuthGuardRejectionsTotal.WithLabelValues(c.Path()).Inc()
				return domain.ErrUnauthorized
			}
			return next(c)
		}
	}
}
