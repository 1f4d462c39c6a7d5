package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/realworld/conduit-api/internal/api/metrics"
	"github.com/realworld/conduit-api/internal/core/domain"
	"github.com/realworld/conduit-api/internal/core/ports"
)

// Authenticate resolves the bearer token of every request into a principal
// and attaches it to the context. It never rejects a request: a missing or
// malformed header, a token that fails verification, and a user id that no
// longer resolves all attach domain.Anonymous(). Enforcement is left to
// RequireUser.
func Authenticate(verifier ports.TokenVerifier, users ports.UserLookup, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if PrincipalFrom(c).Evaluated() {
				return next(c)
			}

			p, outcome := resolvePrincipal(c, verifier, users, log)
			metrics.AuthResolutionsTotal.WithLabelValues(outcome).Inc()
			setPrincipal(c, p)

			return next(c)
		}
	}
}

func resolvePrincipal(c echo.Context, verifier ports.TokenVerifier, users ports.UserLookup, log zerolog.Logger) (domain.Principal, string) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return domain.Anonymous(), metrics.OutcomeNoHeader
	}

	token, ok := bearerToken(header)
	if !ok {
		log.Debug().Str("path", c.Request().URL.Path).Msg("malformed authorization header")
		return domain.Anonymous(), metrics.OutcomeMalformedHeader
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		log.Debug().Err(err).Str("path", c.Request().URL.Path).Msg("bearer token rejected")
		return domain.Anonymous(), metrics.OutcomeInvalidToken
	}

	user, err := users.GetByID(c.Request().Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Debug().Int64("user_id", claims.UserID).Msg("token subject no longer exists")
			return domain.Anonymous(), metrics.OutcomeUnknownUser
		}
		log.Warn().Err(err).Int64("user_id", claims.UserID).Msg("principal lookup failed")
		return domain.Anonymous(), metrics.OutcomeLookupError
	}

	return domain.Authenticated(user), metrics.OutcomeAuthenticated
}

// bearerToken extracts the token from "<scheme> <token>". Only the Bearer and
// Token schemes are accepted, case-insensitively; any other shape is rejected.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "bearer") && !strings.EqualFold(parts[0], "token") {
		return "", false
	}
	return parts[1], true
}
