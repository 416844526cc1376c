package service

import (
	"context"
	"errors"
	"strings"

	dom "Weblog/internal/domain"
	"Weblog/internal/repo"
	"Weblog/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both an unknown username and a wrong
// password. Callers must not distinguish the two.
var ErrInvalidCredentials = errors.New("invalid username or password")

var ErrDuplicateCredential = errors.New("username or email already exists")
var ErrValidation = errors.New("missing required field")

// UserService handles registration and login.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new user with a bcrypt-hashed password (cost 10).
// Uniqueness of username and email is left to the storage constraint.
func (s *UserService) Register(ctx context.Context, username, email, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return dom.User{}, ErrValidation
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, email, string(hash))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrDuplicateCredential
		}
		return dom.User{}, err
	}
	return u, nil
}

// Authenticate checks username and password; returns the user if valid.
// A lookup miss and a bcrypt mismatch both come back as
// ErrInvalidCredentials so responses cannot reveal whether the username
// exists.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}
