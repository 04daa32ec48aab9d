package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserHashesPassword(t *testing.T) {
	user, err := NewUser("Alice", "alice@example.com", "super-secret")
	require.NoError(t, err)

	assert.NotEqual(t, "super-secret", user.Password, "plaintext must never be stored")
	assert.NotEmpty(t, user.Password)
}

func TestNewUserRejectsEmptyPassword(t *testing.T) {
	_, err := NewUser("Alice", "alice@example.com", "")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestCheckPasswordRoundTrip(t *testing.T) {
	user, err := NewUser("Alice", "alice@example.com", "super-secret")
	require.NoError(t, err)

	assert.True(t, user.CheckPassword("super-secret"))
	assert.False(t, user.CheckPassword("not-the-password"))
	assert.False(t, user.CheckPassword(""))
}

func TestSetPasswordReplacesHash(t *testing.T) {
	user, err := NewUser("Alice", "alice@example.com", "first-password")
	require.NoError(t, err)

	require.NoError(t, user.SetPassword("second-password"))
	assert.False(t, user.CheckPassword("first-password"))
	assert.True(t, user.CheckPassword("second-password"))
}

func TestHasValidResetToken(t *testing.T) {
	now := time.Now()
	token := "3f1f0a46-7f8e-4f7e-9c0a-a5a3df0d8a11"
	expires := now.Add(time.Hour)

	user := &User{
		ResetPasswordToken:   &token,
		ResetPasswordExpires: &expires,
	}

	assert.True(t, user.HasValidResetToken(token, now))
	assert.False(t, user.HasValidResetToken("other-token", now))
	assert.False(t, user.HasValidResetToken(token, now.Add(2*time.Hour)), "expired token must be rejected")

	user.ClearResetToken()
	assert.False(t, user.HasValidResetToken(token, now), "consumed token must be rejected")
	assert.Nil(t, user.ResetPasswordToken)
	assert.Nil(t, user.ResetPasswordExpires)
}

func TestMeetupPast(t *testing.T) {
	now := time.Now()

	past := &Meetup{Date: now.Add(-time.Hour)}
	future := &Meetup{Date: now.Add(time.Hour)}

	assert.True(t, past.Past(now))
	assert.False(t, future.Past(now))
}
