package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email or username is taken")
	ErrInvalidCredentials = errors.New("credentials are not valid")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
)

// MaxPasswordBytes is the longest password the hasher accepts.
const MaxPasswordBytes = 72

// User models an account that can authenticate against the API.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Bio          string `json:"bio"`
	Image        string `json:"image"`
	PasswordHash string `json:"-"`
}

// Claims is the payload embedded in a bearer token at issuance.
type Claims struct {
	UserID   int64
	Username string
	Email    string
}

// ClaimsFor returns the claim set that identifies u.
func ClaimsFor(u *User) Claims {
	return Claims{UserID: u.ID, Username: u.Username, Email: u.Email}
}
