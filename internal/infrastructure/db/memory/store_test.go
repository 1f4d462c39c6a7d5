package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realworld/conduit-api/internal/core/domain"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, &domain.User{Username: "jake", Email: "jake@jake.jake", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jake", byID.Username)

	byEmail, err := repo.FindByEmail(ctx, "jake@jake.jake")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byName, err := repo.FindByUsername(ctx, "jake")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	_, err := repo.Create(ctx, &domain.User{Username: "jake", Email: "jake@jake.jake"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.User{Username: "jake", Email: "other@jake.jake"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
	_, err = repo.Create(ctx, &domain.User{Username: "other", Email: "jake@jake.jake"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	jake, err := repo.Create(ctx, &domain.User{Username: "jake", Email: "jake@jake.jake"})
	require.NoError(t, err)
	bob, err := repo.Create(ctx, &domain.User{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	jake.Bio = "I like to skateboard"
	updated, err := repo.Update(ctx, jake)
	require.NoError(t, err)
	assert.Equal(t, "I like to skateboard", updated.Bio)

	bob.Email = "jake@jake.jake"
	_, err = repo.Update(ctx, bob)
	assert.ErrorIs(t, err, domain.ErrUserExists)

	_, err = repo.Update(ctx, &domain.User{ID: 42, Username: "ghost"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, &domain.User{Username: "jake", Email: "jake@jake.jake"})
	require.NoError(t, err)
	created.Username = "mutated"

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jake", stored.Username)
}

func TestUserRepository_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Create(ctx, &domain.User{Username: "same", Email: "same@example.com"})
		}()
	}
	wg.Wait()

	_, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	_, err = repo.FindByID(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestTagRepository_List(t *testing.T) {
	repo := NewTagRepository("dragons", "training")
	repo.Add("welcome")

	tags, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Tag{
		{ID: 1, Name: "dragons"},
		{ID: 2, Name: "training"},
		{ID: 3, Name: "welcome"},
	}, tags)

	empty, err := NewTagRepository().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
