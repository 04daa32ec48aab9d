package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/meetapp-io/meetapp/internal/models"
)

// MeetupStore persists meetups.
type MeetupStore struct {
	db *DB
}

// NewMeetupStore creates a new MeetupStore
func NewMeetupStore(db *DB) *MeetupStore {
	return &MeetupStore{db: db}
}

// Create inserts a new meetup.
func (s *MeetupStore) Create(ctx context.Context, m *models.Meetup) error {
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	id, err := s.db.insertID(ctx,
		`INSERT INTO meetups (title, description, location, date, banner_id, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Title, m.Description, m.Location, m.Date, m.BannerID, m.UserID, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

// GetByID retrieves a meetup by id.
func (s *MeetupStore) GetByID(ctx context.Context, id int64) (*models.Meetup, error) {
	var m models.Meetup
	err := s.db.GetContext(ctx, &m,
		s.db.Rebind(`SELECT * FROM meetups WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMeetupNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetWithOwner retrieves a meetup with its owner embedded, as needed by
// the notification payloads.
func (s *MeetupStore) GetWithOwner(ctx context.Context, id int64) (*models.Meetup, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var owner models.User
	err = s.db.GetContext(ctx, &owner,
		s.db.Rebind(`SELECT * FROM users WHERE id = ?`), m.UserID)
	if err != nil {
		return nil, err
	}
	m.User = &owner
	return m, nil
}

// ListByOwner returns the meetups owned by the given user with their
// banner embedded.
func (s *MeetupStore) ListByOwner(ctx context.Context, userID int64) ([]*models.Meetup, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT m.id, m.title, m.description, m.location, m.date, m.banner_id, m.user_id,
		       m.created_at, m.updated_at, f.path, f.url
		FROM meetups m
		JOIN files f ON f.id = m.banner_id
		WHERE m.user_id = ?
		ORDER BY m.date ASC`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetups []*models.Meetup
	for rows.Next() {
		var m models.Meetup
		var banner models.File
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Description, &m.Location, &m.Date, &m.BannerID, &m.UserID,
			&m.CreatedAt, &m.UpdatedAt, &banner.Path, &banner.URL,
		); err != nil {
			return nil, err
		}
		banner.ID = m.BannerID
		m.Banner = &banner
		meetups = append(meetups, &m)
	}
	return meetups, rows.Err()
}

// Update writes back the mutable fields of a meetup.
func (s *MeetupStore) Update(ctx context.Context, m *models.Meetup) error {
	m.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		s.db.Rebind(`UPDATE meetups
			SET title = ?, description = ?, location = ?, date = ?, banner_id = ?, updated_at = ?
			WHERE id = ?`),
		m.Title, m.Description, m.Location, m.Date, m.BannerID, m.UpdatedAt, m.ID,
	)
	return err
}

// Delete hard-deletes a meetup. Subscriptions cascade at the schema
// level.
func (s *MeetupStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM meetups WHERE id = ?`), id)
	return err
}
