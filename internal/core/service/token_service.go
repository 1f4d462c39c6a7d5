package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/realworld/conduit-api/internal/core/domain"
)

// tokenClaims is the wire shape of a bearer token payload.
type tokenClaims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 bearer tokens with a static secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns a TokenService. A ttl of zero or less issues tokens
// without an expiry claim.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl < 0 {
		ttl = 0
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *TokenService) Sign(claims domain.Claims) (string, error) {
	now := s.now().UTC()
	payload := tokenClaims{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		payload.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Verify(token string) (domain.Claims, error) {
	if token == "" {
		return domain.Claims{}, fmt.Errorf("%w: empty token", domain.ErrInvalidToken)
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domain.Claims{}, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return domain.Claims{}, domain.ErrInvalidToken
	}
	if claims.UserID <= 0 {
		return domain.Claims{}, fmt.Errorf("%w: %w", domain.ErrInvalidToken, errMissingSubject)
	}

	return domain.Claims{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}

var errMissingSubject = errors.New("token carries no user id")
