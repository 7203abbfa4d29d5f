package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User-specific validation errors
var (
	// ErrUserUsernameEmpty is returned when a user's username is empty.
	ErrUserUsernameEmpty = errors.New("username cannot be empty")

	// ErrUserPasswordEmpty is returned when a user's password hash is missing.
	ErrUserPasswordEmpty = errors.New("user password hash cannot be empty")
)

// User is an account that owns tasks and notifications. The password is
// stored only as a bcrypt hash; the plaintext never leaves the service
// layer.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a User with the given username and password hash,
// generating the ID and creation timestamp.
func NewUser(username, hashedPassword string) (*User, error) {
	user := &User{
		ID:             uuid.New(),
		Username:       username,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrUserUsernameEmpty
	}

	if u.HashedPassword == "" {
		return ErrUserPasswordEmpty
	}

	return nil
}
