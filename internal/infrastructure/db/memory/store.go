// Package memory implements the user and tag repositories on mutex-guarded
// maps. It backs local runs with STORAGE_DRIVER=memory and the router tests.
package memory

import (
	"context"
	"sync"

	"github.com/realworld/conduit-api/internal/core/domain"
)

type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[int64]domain.User)}
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conflicts(0, user) {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := *user
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	return &stored, nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	if r.conflicts(user.ID, user) {
		return nil, domain.ErrUserExists
	}
	stored := *user
	r.byID[stored.ID] = stored
	return &stored, nil
}

func (r *UserRepository) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if match(u) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// conflicts reports whether another user already owns user's email or username.
// Caller holds the lock.
func (r *UserRepository) conflicts(selfID int64, user *domain.User) bool {
	for id, u := range r.byID {
		if id == selfID {
			continue
		}
		if u.Email == user.Email || u.Username == user.Username {
			return true
		}
	}
	return false
}

type TagRepository struct {
	mu   sync.RWMutex
	tags []domain.Tag
}

// NewTagRepository seeds the repository with names, assigning ids in order.
func NewTagRepository(names ...string) *TagRepository {
	r := &TagRepository{}
	for _, n := range names {
		r.Add(n)
	}
	return r
}

func (r *TagRepository) Add(name string) domain.Tag {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := domain.Tag{ID: int64(len(r.tags) + 1), Name: name}
	r.tags = append(r.tags, t)
	return t
}

func (r *TagRepository) List(_ context.Context) ([]domain.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Tag, len(r.tags))
	copy(out, r.tags)
	return out, nil
}
