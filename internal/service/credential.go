package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/utils"
)

var (
	ErrUserNotFound  = repository.ErrUserNotFound
	ErrUserExists    = repository.ErrUserExists
	ErrEmptyPassword = errors.New("password must not be empty")
	ErrEmptyUsername = errors.New("username must not be empty")
)

// UserStore persists password records by username.
type UserStore interface {
	Create(ctx context.Context, username, record string) error
	GetByUsername(ctx context.Context, username string) (model.User, error)
	UpdatePassword(ctx context.Context, username, record string) error
}

// CredentialService checks and manages staff passwords.
type CredentialService struct {
	users UserStore
}

func NewCredentialService(users UserStore) *CredentialService {
	return &CredentialService{users: users}
}

// Verify reports whether password matches the stored record of username.
// Unknown users, malformed records and storage failures all yield false.
func (s *CredentialService) Verify(ctx context.Context, username, password string) bool {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return false
	}
	return utils.VerifyPassword(u.Password, password)
}

// SetPassword stores a freshly salted record for an existing user.
func (s *CredentialService) SetPassword(ctx context.Context, username, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	record, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, username, record)
}

// CreateUser adds a staff account.
func (s *CredentialService) CreateUser(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyUsername
	}
	if password == "" {
		return ErrEmptyPassword
	}
	record, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.Create(ctx, username, record)
}
