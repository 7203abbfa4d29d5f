package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taskman/taskman-api/internal/domain"
	"github.com/taskman/taskman-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles account registration and login. There are no tokens
// or sessions: login only verifies credentials and returns the account.
type UserService struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewUserService creates a UserService.
// Returns an error if the user store is nil.
func NewUserService(users store.UserStore, logger *slog.Logger) (*UserService, error) {
	if users == nil {
		return nil, errors.New("user store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserService{
		users:  users,
		logger: logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register creates a new account with a bcrypt-hashed password.
// Returns store.ErrUsernameExists if the username is already taken.
func (s *UserService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if password == "" {
		return nil, ErrPasswordEmpty
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &ServiceError{Operation: "register user", Err: err}
	}

	user, err := domain.NewUser(username, string(hash))
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			return nil, err
		}
		return nil, &ServiceError{Operation: "register user", Err: err}
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies the credentials and returns the account.
// Unknown usernames and wrong passwords both return ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, &ServiceError{Operation: "login", Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
