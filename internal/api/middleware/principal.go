package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/realworld/conduit-api/internal/core/domain"
)

const principalKey = "principal"

// PrincipalFrom returns the principal attached by Authenticate. A request that
// never went through Authenticate yields the zero (unevaluated) Principal.
func PrincipalFrom(c echo.Context) domain.Principal {
	p, _ := c.Get(principalKey).(domain.Principal)
	return p
}

func setPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}
