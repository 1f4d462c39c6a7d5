package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/realworld/conduit-api/internal/core/ports"
)

// TagCache abstracts the tag list cache (Redis).
type TagCache interface {
	Get(ctx context.Context) (names []string, ok bool, err error)
	Set(ctx context.Context, names []string) error
}

type TagService struct {
	repo  ports.TagRepository
	cache TagCache
	log   zerolog.Logger
}

// NewTagService returns a TagService. cache may be nil, in which case every
// call reads the repository.
func NewTagService(repo ports.TagRepository, cache TagCache, log zerolog.Logger) *TagService {
	return &TagService{repo: repo, cache: cache, log: log}
}

func (s *TagService) ListNames(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		names, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("tag cache read failed, falling back to store")
		case ok:
			return names, nil
		}
	}

	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, names); err != nil {
			s.log.Warn().Err(err).Msg("tag cache write failed")
		}
	}
	return names, nil
}
