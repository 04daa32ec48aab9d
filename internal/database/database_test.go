package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/meetapp-io/meetapp/internal/config"
	"github.com/meetapp-io/meetapp/internal/models"
)

// StoreTestSuite runs every store against a throwaway SQLite database.
type StoreTestSuite struct {
	suite.Suite
	db            *DB
	users         *UserStore
	files         *FileStore
	meetups       *MeetupStore
	subscriptions *SubscriptionStore
	ctx           context.Context
}

// SetupTest opens a fresh database for each test.
func (s *StoreTestSuite) SetupTest() {
	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(s.T().TempDir(), "meetapp_test.db")

	db, err := Open(cfg)
	s.Require().NoError(err, "database initialization should succeed")

	s.db = db
	s.users = NewUserStore(db)
	s.files = NewFileStore(db)
	s.meetups = NewMeetupStore(db)
	s.subscriptions = NewSubscriptionStore(db)
	s.ctx = context.Background()
}

// TearDownTest closes the connection; the temp dir removes the file.
func (s *StoreTestSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

// TestStoreTestSuite runs the test suite
func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) createUser(name, email string) *models.User {
	u, err := models.NewUser(name, email, "password123")
	s.Require().NoError(err)
	s.Require().NoError(s.users.Create(s.ctx, u))
	return u
}

func (s *StoreTestSuite) createBanner() *models.File {
	f := &models.File{Path: "banners/test.png", URL: "https://cdn.example.com/banners/test.png"}
	s.Require().NoError(s.files.Create(s.ctx, f))
	return f
}

func (s *StoreTestSuite) createMeetup(owner *models.User, title string, date time.Time) *models.Meetup {
	banner := s.createBanner()
	m := &models.Meetup{
		Title:       title,
		Description: "A meetup about " + title,
		Location:    "Main Hall",
		Date:        date,
		BannerID:    banner.ID,
		UserID:      owner.ID,
	}
	s.Require().NoError(s.meetups.Create(s.ctx, m))
	return m
}

func (s *StoreTestSuite) TestCreateAndGetUser() {
	user := s.createUser("Alice", "alice@example.com")
	assert.NotZero(s.T(), user.ID)

	byID, err := s.users.GetByID(s.ctx, user.ID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "alice@example.com", byID.Email)

	byEmail, err := s.users.GetByEmail(s.ctx, "alice@example.com")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), user.ID, byEmail.ID)

	_, err = s.users.GetByID(s.ctx, 9999)
	assert.ErrorIs(s.T(), err, ErrUserNotFound)
	_, err = s.users.GetByEmail(s.ctx, "nobody@example.com")
	assert.ErrorIs(s.T(), err, ErrUserNotFound)
}

func (s *StoreTestSuite) TestCreateUserDuplicateEmail() {
	s.createUser("Alice", "alice@example.com")

	dup, err := models.NewUser("Other Alice", "alice@example.com", "password123")
	s.Require().NoError(err)
	err = s.users.Create(s.ctx, dup)
	assert.ErrorIs(s.T(), err, ErrEmailTaken)
}

func (s *StoreTestSuite) TestEmailTaken() {
	s.createUser("Alice", "alice@example.com")

	taken, err := s.users.EmailTaken(s.ctx, "alice@example.com")
	assert.NoError(s.T(), err)
	assert.True(s.T(), taken)

	taken, err = s.users.EmailTaken(s.ctx, "bob@example.com")
	assert.NoError(s.T(), err)
	assert.False(s.T(), taken)
}

func (s *StoreTestSuite) TestUpdateUserResetToken() {
	user := s.createUser("Alice", "alice@example.com")

	token := "reset-token"
	expires := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	user.ResetPasswordToken = &token
	user.ResetPasswordExpires = &expires
	s.Require().NoError(s.users.Update(s.ctx, user))

	reloaded, err := s.users.GetByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().NotNil(reloaded.ResetPasswordToken)
	assert.Equal(s.T(), token, *reloaded.ResetPasswordToken)
	s.Require().NotNil(reloaded.ResetPasswordExpires)
	assert.True(s.T(), reloaded.ResetPasswordExpires.Equal(expires))

	reloaded.ClearResetToken()
	s.Require().NoError(s.users.Update(s.ctx, reloaded))

	reloaded, err = s.users.GetByID(s.ctx, user.ID)
	s.Require().NoError(err)
	assert.Nil(s.T(), reloaded.ResetPasswordToken)
	assert.Nil(s.T(), reloaded.ResetPasswordExpires)
}

func (s *StoreTestSuite) TestUpdateUserDuplicateEmail() {
	alice := s.createUser("Alice", "alice@example.com")
	s.createUser("Bob", "bob@example.com")

	alice.Email = "bob@example.com"
	err := s.users.Update(s.ctx, alice)
	assert.ErrorIs(s.T(), err, ErrEmailTaken)
}

func (s *StoreTestSuite) TestCreateAndGetFile() {
	f := s.createBanner()
	assert.NotZero(s.T(), f.ID)

	got, err := s.files.GetByID(s.ctx, f.ID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), f.URL, got.URL)

	_, err = s.files.GetByID(s.ctx, 9999)
	assert.ErrorIs(s.T(), err, ErrFileNotFound)

	all, err := s.files.List(s.ctx)
	assert.NoError(s.T(), err)
	assert.Len(s.T(), all, 1)
}

func (s *StoreTestSuite) TestMeetupLifecycle() {
	owner := s.createUser("Alice", "alice@example.com")
	date := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	m := s.createMeetup(owner, "Go Meetup", date)
	assert.NotZero(s.T(), m.ID)

	got, err := s.meetups.GetByID(s.ctx, m.ID)
	s.Require().NoError(err)
	assert.Equal(s.T(), "Go Meetup", got.Title)
	assert.True(s.T(), got.Date.Equal(date))

	got.Title = "Go Meetup 2.0"
	s.Require().NoError(s.meetups.Update(s.ctx, got))

	got, err = s.meetups.GetByID(s.ctx, m.ID)
	s.Require().NoError(err)
	assert.Equal(s.T(), "Go Meetup 2.0", got.Title)

	s.Require().NoError(s.meetups.Delete(s.ctx, m.ID))
	_, err = s.meetups.GetByID(s.ctx, m.ID)
	assert.ErrorIs(s.T(), err, ErrMeetupNotFound)
}

func (s *StoreTestSuite) TestGetMeetupWithOwner() {
	owner := s.createUser("Alice", "alice@example.com")
	m := s.createMeetup(owner, "Go Meetup", time.Now().UTC().Add(24*time.Hour))

	got, err := s.meetups.GetWithOwner(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.User)
	assert.Equal(s.T(), "alice@example.com", got.User.Email)
}

func (s *StoreTestSuite) TestListMeetupsByOwner() {
	alice := s.createUser("Alice", "alice@example.com")
	bob := s.createUser("Bob", "bob@example.com")

	later := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	sooner := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	s.createMeetup(alice, "Later Meetup", later)
	s.createMeetup(alice, "Sooner Meetup", sooner)
	s.createMeetup(bob, "Bob's Meetup", sooner)

	meetups, err := s.meetups.ListByOwner(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(meetups, 2)
	assert.Equal(s.T(), "Sooner Meetup", meetups[0].Title, "ordered by date ascending")
	assert.Equal(s.T(), "Later Meetup", meetups[1].Title)
	s.Require().NotNil(meetups[0].Banner)
	assert.NotEmpty(s.T(), meetups[0].Banner.URL)
}

func (s *StoreTestSuite) TestSubscriptionCreateAndDuplicate() {
	owner := s.createUser("Alice", "alice@example.com")
	subscriber := s.createUser("Bob", "bob@example.com")
	m := s.createMeetup(owner, "Go Meetup", time.Now().UTC().Add(24*time.Hour))

	sub := &models.Subscription{UserID: subscriber.ID, MeetupID: m.ID}
	s.Require().NoError(s.subscriptions.Create(s.ctx, sub))
	assert.NotZero(s.T(), sub.ID)

	dup := &models.Subscription{UserID: subscriber.ID, MeetupID: m.ID}
	err := s.subscriptions.Create(s.ctx, dup)
	assert.ErrorIs(s.T(), err, ErrAlreadySubscribed)
}

func (s *StoreTestSuite) TestGetSubscriptionByUserAndMeetup() {
	owner := s.createUser("Alice", "alice@example.com")
	subscriber := s.createUser("Bob", "bob@example.com")
	m := s.createMeetup(owner, "Go Meetup", time.Now().UTC().Add(24*time.Hour))

	s.Require().NoError(s.subscriptions.Create(s.ctx, &models.Subscription{UserID: subscriber.ID, MeetupID: m.ID}))

	sub, err := s.subscriptions.GetByUserAndMeetup(s.ctx, subscriber.ID, m.ID)
	s.Require().NoError(err)
	s.Require().NotNil(sub.Meetup)
	assert.Equal(s.T(), "Go Meetup", sub.Meetup.Title)

	_, err = s.subscriptions.GetByUserAndMeetup(s.ctx, owner.ID, m.ID)
	assert.ErrorIs(s.T(), err, ErrSubscriptionNotFound)
}

func (s *StoreTestSuite) TestHasSubscriptionAt() {
	owner := s.createUser("Alice", "alice@example.com")
	subscriber := s.createUser("Bob", "bob@example.com")
	date := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	m := s.createMeetup(owner, "Go Meetup", date)

	s.Require().NoError(s.subscriptions.Create(s.ctx, &models.Subscription{UserID: subscriber.ID, MeetupID: m.ID}))

	clash, err := s.subscriptions.HasSubscriptionAt(s.ctx, subscriber.ID, date)
	assert.NoError(s.T(), err)
	assert.True(s.T(), clash)

	clash, err = s.subscriptions.HasSubscriptionAt(s.ctx, subscriber.ID, date.Add(time.Hour))
	assert.NoError(s.T(), err)
	assert.False(s.T(), clash)

	clash, err = s.subscriptions.HasSubscriptionAt(s.ctx, owner.ID, date)
	assert.NoError(s.T(), err)
	assert.False(s.T(), clash)
}

func (s *StoreTestSuite) TestListUpcomingSubscriptions() {
	owner := s.createUser("Alice", "alice@example.com")
	subscriber := s.createUser("Bob", "bob@example.com")
	now := time.Now().UTC().Truncate(time.Second)

	past := s.createMeetup(owner, "Past Meetup", now.Add(-24*time.Hour))
	soon := s.createMeetup(owner, "Soon Meetup", now.Add(24*time.Hour))
	later := s.createMeetup(owner, "Later Meetup", now.Add(72*time.Hour))
	for _, m := range []*models.Meetup{later, past, soon} {
		s.Require().NoError(s.subscriptions.Create(s.ctx, &models.Subscription{UserID: subscriber.ID, MeetupID: m.ID}))
	}

	subs, err := s.subscriptions.ListUpcoming(s.ctx, subscriber.ID, now, 1, 20)
	s.Require().NoError(err)
	s.Require().Len(subs, 2, "past meetups are filtered out")
	assert.Equal(s.T(), "Soon Meetup", subs[0].Meetup.Title)
	assert.Equal(s.T(), "Later Meetup", subs[1].Meetup.Title)
	s.Require().NotNil(subs[0].Meetup.User)
	assert.Equal(s.T(), "alice@example.com", subs[0].Meetup.User.Email)
}

func (s *StoreTestSuite) TestListUpcomingPagination() {
	owner := s.createUser("Alice", "alice@example.com")
	subscriber := s.createUser("Bob", "bob@example.com")
	now := time.Now().UTC().Truncate(time.Second)

	for i := 1; i <= 3; i++ {
		m := s.createMeetup(owner, "Meetup", now.Add(time.Duration(i)*24*time.Hour))
		s.Require().NoError(s.subscriptions.Create(s.ctx, &models.Subscription{UserID: subscriber.ID, MeetupID: m.ID}))
	}

	page1, err := s.subscriptions.ListUpcoming(s.ctx, subscriber.ID, now, 1, 2)
	s.Require().NoError(err)
	assert.Len(s.T(), page1, 2)

	page2, err := s.subscriptions.ListUpcoming(s.ctx, subscriber.ID, now, 2, 2)
	s.Require().NoError(err)
	assert.Len(s.T(), page2, 1)
}

func (s *StoreTestSuite) TestDeleteSubscription() {
	owner := s.createUser("Alice", "alice@example.com")
	subscriber := s.createUser("Bob", "bob@example.com")
	m := s.createMeetup(owner, "Go Meetup", time.Now().UTC().Add(24*time.Hour))

	sub := &models.Subscription{UserID: subscriber.ID, MeetupID: m.ID}
	s.Require().NoError(s.subscriptions.Create(s.ctx, sub))
	s.Require().NoError(s.subscriptions.Delete(s.ctx, sub.ID))

	_, err := s.subscriptions.GetByUserAndMeetup(s.ctx, subscriber.ID, m.ID)
	assert.ErrorIs(s.T(), err, ErrSubscriptionNotFound)
}
