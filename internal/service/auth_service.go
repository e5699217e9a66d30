package service

import (
	"context"
	"errors"
	"fmt"

	"taskhive/internal/auth"
	apperr "taskhive/internal/errors"
	"taskhive/internal/model"
	"taskhive/internal/password"
	"taskhive/internal/repository"
)

// AuthService handles registration, login and identity resolution.
type AuthService interface {
	Register(ctx context.Context, username, email, plainPassword string) (*model.User, string, error)
	Login(ctx context.Context, username, plainPassword string) (*model.User, string, error)
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
	}
}

// Register creates a new user with a hashed password and returns the user
// together with a freshly issued token.
func (s *authService) Register(ctx context.Context, username, email, plainPassword string) (*model.User, string, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, "", fmt.Errorf("%w: username already taken", apperr.ErrUserAlreadyExists)
	} else if !errors.Is(err, apperr.ErrUserNotFound) {
		return nil, "", fmt.Errorf("check username: %w", err)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, "", fmt.Errorf("%w: email already registered", apperr.ErrUserAlreadyExists)
	} else if !errors.Is(err, apperr.ErrUserNotFound) {
		return nil, "", fmt.Errorf("check email: %w", err)
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	// The unique indexes back up the existence checks above, so a concurrent
	// registration of the same name still surfaces as ErrUserAlreadyExists.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.jwtService.Issue(user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns a signed token. A bcrypt comparison
// runs even when the username is unknown so response timing does not reveal
// which usernames exist.
func (s *authService) Login(ctx context.Context, username, plainPassword string) (*model.User, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		password.DummyCompare(plainPassword)
		return nil, "", apperr.ErrInvalidCredentials
	}

	if !password.Verify(plainPassword, user.PasswordHash) {
		return nil, "", apperr.ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}
