package ports

import (
	"context"

	"github.com/realworld/conduit-api/internal/core/domain"
)

// UserRepository defines the persistence operations for user accounts.
// Finders return domain.ErrUserNotFound on a miss; Create and Update return
// domain.ErrUserExists when the email or username collides with another row.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}
