package ports

import "context"

type TagService interface {
	// ListNames returns every tag name, ordered by tag id.
	ListNames(ctx context.Context) ([]string, error)
}
