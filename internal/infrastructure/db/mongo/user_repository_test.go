package mongo

import (
	"testing"

	"github.com/realworld/conduit-api/internal/core/domain"
)

func TestMongoUserMapping(t *testing.T) {
	in := &domain.User{
		ID:           7,
		Username:     "jake",
		Email:        "jake@jake.jake",
		Bio:          "I work at statefarm",
		Image:        "https://example.com/jake.png",
		PasswordHash: "$2a$hash",
	}

	out := toMongoUser(in).toDomain()
	if *out != *in {
		t.Fatalf("mapping lost data: got %+v, want %+v", out, in)
	}
}
