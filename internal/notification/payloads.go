// Package notification maps queued job payloads to outgoing email. The
// handlers only render and send; they never write to persistence, so a
// redelivered job at worst sends the same email twice.
package notification

import "time"

// Job keys as they appear on the queue.
const (
	PasswordResetMailKey  = "PasswordResetMail"
	SubscriptionMailKey   = "SubscriptionMail"
	UnsubscriptionMailKey = "UnsubscriptionMail"
)

// UserPayload is the slice of a user record a notification needs.
type UserPayload struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	ResetPasswordToken string `json:"reset_password_token,omitempty"`
}

// MeetupPayload carries the meetup details shown in emails, with the
// owner embedded.
type MeetupPayload struct {
	Title    string      `json:"title"`
	Location string      `json:"location"`
	Date     time.Time   `json:"date"`
	User     UserPayload `json:"user"`
}

// PasswordResetPayload is enqueued when a known user requests a reset.
// Endpoint is the reset link base the frontend asked for.
type PasswordResetPayload struct {
	User     UserPayload `json:"user"`
	Endpoint string      `json:"endpoint"`
}

// SubscriptionData nests the subscriber and the meetup (with owner) the
// way the subscribe handler loaded them.
type SubscriptionData struct {
	User   UserPayload   `json:"user"`
	Meetup MeetupPayload `json:"meetup"`
}

// SubscriptionPayload is enqueued on a successful subscribe.
type SubscriptionPayload struct {
	Subscription SubscriptionData `json:"subscription"`
}

// UnsubscriptionPayload is enqueued on a successful unsubscribe.
type UnsubscriptionPayload struct {
	Meetup MeetupPayload `json:"meetup"`
	User   UserPayload   `json:"user"`
}
