// internal/store/users.go
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) CreateUser(ctx context.Context, u *User) error {
	_, err := s.exec(ctx,
		`INSERT INTO users (id, email, username, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	if err := s.get(ctx, &u, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := s.get(ctx, &u, `SELECT * FROM users WHERE email = ?`, email); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	if err := s.get(ctx, &u, `SELECT * FROM users WHERE username = ?`, username); err != nil {
		return nil, err
	}
	return &u, nil
}
