package ports

import (
	"context"

	"github.com/realworld/conduit-api/internal/core/domain"
)

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UpdateUserInput carries a partial update. Nil fields are left untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Bio      *string
	Image    *string
	Password *string
}

// UserLookup resolves a user by identifier. It is the only persistence
// capability the request authenticator needs.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// UserService defines the credential lifecycle use cases.
type UserService interface {
	UserLookup
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error)
}
