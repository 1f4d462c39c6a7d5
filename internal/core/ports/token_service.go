package ports

import "github.com/realworld/conduit-api/internal/core/domain"

// TokenVerifier decodes a bearer token. Any failure wraps domain.ErrInvalidToken
// and no partial claims are returned.
type TokenVerifier interface {
	Verify(token string) (domain.Claims, error)
}

// TokenIssuer signs a fresh bearer token for the given claims.
type TokenIssuer interface {
	Sign(claims domain.Claims) (string, error)
}

type TokenService interface {
	TokenVerifier
	TokenIssuer
}
