package handler

import "github.com/realworld/conduit-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---
// Every user payload is wrapped in a top-level "user" object.

type registerUser struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type registerRequest struct {
	User registerUser `json:"user"`
}

type loginUser struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	User loginUser `json:"user"`
}

type updateUser struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=1"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	Bio      *string `json:"bio,omitempty"`
	Image    *string `json:"image,omitempty"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=1,max=72"`
}

type updateUserRequest struct {
	User updateUser `json:"user"`
}

// --- Response types ---

// userBody is the outward view of an account: never the password hash, always
// a freshly issued token.
type userBody struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Token    string `json:"token"`
}

type userResponse struct {
	User userBody `json:"user"`
}

func newUserResponse(u *domain.User, token string) userResponse {
	return userResponse{User: userBody{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Bio:      u.Bio,
		Image:    u.Image,
		Token:    token,
	}}
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}
