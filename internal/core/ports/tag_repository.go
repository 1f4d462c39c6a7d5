package ports

import (
	"context"

	"github.com/realworld/conduit-api/internal/core/domain"
)

// TagRepository lists stored tags ordered by id.
type TagRepository interface {
	List(ctx context.Context) ([]domain.Tag, error)
}
