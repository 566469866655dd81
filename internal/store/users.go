package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/01moynul/sweetshop-golang/internal/apperr"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

const userColumns = "id, name, email, mobile, password_hash, role, created_at"

// CreateUser inserts u and sets its ID. A second user with the same email
// fails with KindDuplicateEmail.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, mobile, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.Mobile, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Wrap(apperr.KindDuplicateEmail, "User already exists", err)
		}
		return apperr.Internal("Failed to create user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperr.Internal("Failed to get new user ID", err)
	}
	u.ID = id
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email))
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE email = ?", email).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Internal("Database error", err)
	}
	return true, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var mobile sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &mobile, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Database error", fmt.Errorf("scan user: %w", err))
	}
	u.Mobile = mobile.String
	return &u, nil
}
