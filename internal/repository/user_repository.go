package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/room-reservation/internal/model"
)

// UserRepo reads and writes the 'users' table.
type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// Create inserts a user with an already derived password record.
func (r *UserRepo) Create(ctx context.Context, username, record string) error {
	username = strings.TrimSpace(username)
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password) VALUES (?, ?)",
		username, record)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrUserExists
		}
		return storageErr("insert user", err)
	}
	return nil
}

// GetByUsername fetches a user by name.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u,
		"SELECT username, password FROM users WHERE username = ? LIMIT 1",
		strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, storageErr("get user", err)
	}
	return u, nil
}

// UpdatePassword replaces the stored password record of an existing user.
func (r *UserRepo) UpdatePassword(ctx context.Context, username, record string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password = ? WHERE username = ?",
		record, strings.TrimSpace(username))
	if err != nil {
		return storageErr("update password", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("update password", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
