package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/meetapp-io/meetapp/internal/models"
)

// SubscriptionStore persists subscriptions.
type SubscriptionStore struct {
	db *DB
}

// NewSubscriptionStore creates a new SubscriptionStore
func NewSubscriptionStore(db *DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

// Create inserts a new subscription. The (user_id, meetup_id) pair is
// unique at the schema level, so a duplicate subscribe returns
// ErrAlreadySubscribed regardless of concurrent requests.
func (s *SubscriptionStore) Create(ctx context.Context, sub *models.Subscription) error {
	sub.CreatedAt = time.Now().UTC()

	id, err := s.db.insertID(ctx,
		`INSERT INTO subscriptions (user_id, meetup_id, created_at) VALUES (?, ?, ?)`,
		sub.UserID, sub.MeetupID, sub.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadySubscribed
		}
		return err
	}
	sub.ID = id
	return nil
}

// GetByUserAndMeetup retrieves a subscription with its meetup embedded.
func (s *SubscriptionStore) GetByUserAndMeetup(ctx context.Context, userID, meetupID int64) (*models.Subscription, error) {
	var sub models.Subscription
	var m models.Meetup
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT s.id, s.user_id, s.meetup_id, s.created_at,
		       m.id, m.title, m.description, m.location, m.date, m.banner_id, m.user_id
		FROM subscriptions s
		JOIN meetups m ON m.id = s.meetup_id
		WHERE s.user_id = ? AND s.meetup_id = ?`), userID, meetupID).Scan(
		&sub.ID, &sub.UserID, &sub.MeetupID, &sub.CreatedAt,
		&m.ID, &m.Title, &m.Description, &m.Location, &m.Date, &m.BannerID, &m.UserID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	sub.Meetup = &m
	return &sub, nil
}

// HasSubscriptionAt reports whether the user already holds a
// subscription to any meetup scheduled at the given date/time. This is
// the double-booking guard.
func (s *SubscriptionStore) HasSubscriptionAt(ctx context.Context, userID int64, date time.Time) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT EXISTS(
			SELECT 1
			FROM subscriptions s
			JOIN meetups m ON m.id = s.meetup_id
			WHERE s.user_id = ? AND m.date = ?
		)`), userID, date).Scan(&exists)
	return exists, err
}

// Delete hard-deletes a subscription.
func (s *SubscriptionStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM subscriptions WHERE id = ?`), id)
	return err
}

// ListUpcoming returns the caller's subscriptions whose meetup is still
// in the future, meetup and owner embedded, ordered by meetup date
// ascending. Pages are 1-based with perPage rows each.
func (s *SubscriptionStore) ListUpcoming(ctx context.Context, userID int64, now time.Time, page, perPage int) ([]*models.Subscription, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * perPage

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT s.id, s.user_id, s.meetup_id, s.created_at,
		       m.id, m.title, m.description, m.location, m.date, m.banner_id, m.user_id,
		       u.name, u.email
		FROM subscriptions s
		JOIN meetups m ON m.id = s.meetup_id
		JOIN users u ON u.id = m.user_id
		WHERE s.user_id = ? AND m.date >= ?
		ORDER BY m.date ASC
		LIMIT ? OFFSET ?`), userID, now, perPage, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		var sub models.Subscription
		var m models.Meetup
		var owner models.User
		if err := rows.Scan(
			&sub.ID, &sub.UserID, &sub.MeetupID, &sub.CreatedAt,
			&m.ID, &m.Title, &m.Description, &m.Location, &m.Date, &m.BannerID, &m.UserID,
			&owner.Name, &owner.Email,
		); err != nil {
			return nil, err
		}
		owner.ID = m.UserID
		m.User = &owner
		sub.Meetup = &m
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}
