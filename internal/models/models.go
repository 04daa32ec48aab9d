package models

import (
	"time"
)

// File represents an uploaded banner image. Files are created once at
// upload time and never mutated afterwards.
type File struct {
	ID        int64     `json:"id" db:"id"`
	Path      string    `json:"path" db:"path"`
	URL       string    `json:"url" db:"url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Meetup represents an event owned by a user.
type Meetup struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Location    string    `json:"location" db:"location"`
	Date        time.Time `json:"date" db:"date"`
	BannerID    int64     `json:"banner_id" db:"banner_id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	Banner *File `json:"banner,omitempty" db:"-"`
	User   *User `json:"user,omitempty" db:"-"`
}

// Past reports whether the meetup's date is already behind the given
// instant. Past meetups are immutable: no update, cancel, subscribe or
// unsubscribe.
func (m *Meetup) Past(now time.Time) bool {
	return m.Date.Before(now)
}

// Subscription is a join record expressing a user's intent to attend a
// meetup.
type Subscription struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	MeetupID  int64     `json:"meetup_id" db:"meetup_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Meetup *Meetup `json:"meetup,omitempty" db:"-"`
	User   *User   `json:"user,omitempty" db:"-"`
}
