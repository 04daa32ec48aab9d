package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/meetapp-io/meetapp/internal/models"
)

// UserStore persists user accounts.
type UserStore struct {
	db *DB
}

// NewUserStore creates a new UserStore
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user. Returns ErrEmailTaken when the email is
// already registered.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	id, err := s.db.insertID(ctx,
		`INSERT INTO users (name, email, password, provider, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.Password, u.Provider, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	u.ID = id
	return nil
}

// GetByID retrieves a user by id.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u,
		s.db.Rebind(`SELECT * FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u,
		s.db.Rebind(`SELECT * FROM users WHERE email = ?`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EmailTaken reports whether a user with the given email exists.
func (s *UserStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`), email).Scan(&exists)
	return exists, err
}

// Update writes back the mutable fields of a user, including the
// password hash and the reset-token pair.
func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		s.db.Rebind(`UPDATE users
			SET name = ?, email = ?, password = ?, provider = ?,
			    reset_password_token = ?, reset_password_expires = ?, updated_at = ?
			WHERE id = ?`),
		u.Name, u.Email, u.Password, u.Provider,
		u.ResetPasswordToken, u.ResetPasswordExpires, u.UpdatedAt, u.ID,
	)
	if err != nil && isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}
