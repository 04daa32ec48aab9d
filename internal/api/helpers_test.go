package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meetapp-io/meetapp/internal/config"
	"github.com/meetapp-io/meetapp/internal/database"
	"github.com/meetapp-io/meetapp/internal/models"
	"github.com/meetapp-io/meetapp/internal/storage"
)

// fakeQueue records enqueued jobs instead of publishing them.
type fakeQueue struct {
	jobs []enqueuedJob
	err  error
}

type enqueuedJob struct {
	key     string
	payload interface{}
}

func (q *fakeQueue) Enqueue(_ context.Context, key string, payload interface{}) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, enqueuedJob{key: key, payload: payload})
	return nil
}

// fakeStorage pretends every upload succeeds.
type fakeStorage struct {
	uploads []string
}

func (s *fakeStorage) Upload(_ context.Context, key string, _ io.Reader, _ string) (*storage.UploadResult, error) {
	s.uploads = append(s.uploads, key)
	return &storage.UploadResult{Key: key, URL: "https://cdn.test/" + key}, nil
}

type testAPI struct {
	*Api
	queue   *fakeQueue
	storage *fakeStorage
	db      *database.DB
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "meetapp_test.db")
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLHrs = 1
	cfg.Auth.ResetTTLMins = 60

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	q := &fakeQueue{}
	s := &fakeStorage{}
	return &testAPI{
		Api:     NewApi(cfg, db, q, s),
		queue:   q,
		storage: s,
		db:      db,
	}
}

// createUser registers a user directly through the store and returns it
// with a session token.
func (a *testAPI) createUser(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()

	user, err := models.NewUser(name, email, "password123")
	require.NoError(t, err)
	require.NoError(t, a.users.Create(context.Background(), user))

	token, err := a.tokens.GenerateToken(user, time.Hour)
	require.NoError(t, err)
	return user, token
}

func (a *testAPI) createBanner(t *testing.T) *models.File {
	t.Helper()

	f := &models.File{Path: "banners/test.png", URL: "https://cdn.test/banners/test.png"}
	require.NoError(t, a.files.Create(context.Background(), f))
	return f
}

func (a *testAPI) createMeetup(t *testing.T, owner *models.User, date time.Time) *models.Meetup {
	t.Helper()

	banner := a.createBanner(t)
	m := &models.Meetup{
		Title:       "Go Meetup",
		Description: "Talks and pizza",
		Location:    "Main Hall",
		Date:        date,
		BannerID:    banner.ID,
		UserID:      owner.ID,
	}
	require.NoError(t, a.meetups.Create(context.Background(), m))
	return m
}

func (a *testAPI) subscribe(t *testing.T, user *models.User, meetupID int64) *models.Subscription {
	t.Helper()

	sub := &models.Subscription{UserID: user.ID, MeetupID: meetupID}
	require.NoError(t, a.subscriptions.Create(context.Background(), sub))
	return sub
}

// doRequest runs a request through the full router so middleware and URL
// params behave as in production.
func (a *testAPI) doRequest(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func futureDate() time.Time {
	return time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
}

func pastDate() time.Time {
	return time.Now().UTC().Add(-48 * time.Hour).Truncate(time.Second)
}
