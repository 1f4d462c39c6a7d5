package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/realworld/conduit-api/internal/core/domain"
	"github.com/realworld/conduit-api/internal/core/ports"
)

// UserService implements registration, login, lookup and profile updates.
type UserService struct {
	repo     ports.UserRepository
	log      zerolog.Logger
	hashCost int
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log, hashCost: bcrypt.DefaultCost}
}

// GetByID returns domain.ErrUserNotFound when id no longer resolves.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Register creates a new account. The availability check and the insert are
// not atomic; the store's unique constraints turn a lost race into
// domain.ErrUserExists as well.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrInvalidInput)
	}

	if err := s.ensureAvailable(ctx, 0, in.Email, in.Username); err != nil {
		return nil, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login checks the password for the account registered under email. Unknown
// email and wrong password both yield domain.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// Update merges the provided fields onto the stored account.
func (s *UserService) Update(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var email, username string
	if in.Email != nil && *in.Email != user.Email {
		email = *in.Email
	}
	if in.Username != nil && *in.Username != user.Username {
		username = *in.Username
	}
	if err := s.ensureAvailable(ctx, user.ID, email, username); err != nil {
		return nil, err
	}

	if email != "" {
		user.Email = email
	}
	if username != "" {
		user.Username = username
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Image != nil {
		user.Image = *in.Image
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", updated.ID).Msg("user updated")
	return updated, nil
}

// ensureAvailable fails with domain.ErrUserExists when email or username
// belongs to an account other than selfID. Empty values are skipped.
func (s *UserService) ensureAvailable(ctx context.Context, selfID int64, email, username string) error {
	if email != "" {
		existing, err := s.repo.FindByEmail(ctx, email)
		if err == nil && existing.ID != selfID {
			return domain.ErrUserExists
		}
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("check email: %w", err)
		}
	}
	if username != "" {
		existing, err := s.repo.FindByUsername(ctx, username)
		if err == nil && existing.ID != selfID {
			return domain.ErrUserExists
		}
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("check username: %w", err)
		}
	}
	return nil
}

func (s *UserService) hash(password string) (string, error) {
	if len(password) > domain.MaxPasswordBytes {
		return "", fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, domain.MaxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
