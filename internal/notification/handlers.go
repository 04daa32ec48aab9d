package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meetapp-io/meetapp/internal/mail"
)

// PasswordResetMail emails a reset link to the user who requested it.
type PasswordResetMail struct {
	mailer mail.Mailer
}

// NewPasswordResetMail creates the handler.
func NewPasswordResetMail(mailer mail.Mailer) *PasswordResetMail {
	return &PasswordResetMail{mailer: mailer}
}

// Key implements queue.Handler.
func (*PasswordResetMail) Key() string { return PasswordResetMailKey }

// Process implements queue.Handler.
func (j *PasswordResetMail) Process(ctx context.Context, payload []byte) error {
	var p PasswordResetPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", PasswordResetMailKey, err)
	}
	return j.mailer.Send(ctx, BuildPasswordResetMessage(p))
}

// BuildPasswordResetMessage maps the payload to the outgoing message.
func BuildPasswordResetMessage(p PasswordResetPayload) mail.Message {
	return mail.Message{
		To:       p.User.Email,
		ToName:   p.User.Name,
		Subject:  "Recuperação de senha",
		Template: "password_reset",
		Context: map[string]interface{}{
			"name": p.User.Name,
			"link": strings.TrimSuffix(p.Endpoint, "/") + "/" + p.User.ResetPasswordToken,
		},
	}
}

// SubscriptionMail tells a meetup owner about a new subscriber.
type SubscriptionMail struct {
	mailer mail.Mailer
}

// NewSubscriptionMail creates the handler.
func NewSubscriptionMail(mailer mail.Mailer) *SubscriptionMail {
	return &SubscriptionMail{mailer: mailer}
}

// Key implements queue.Handler.
func (*SubscriptionMail) Key() string { return SubscriptionMailKey }

// Process implements queue.Handler.
func (j *SubscriptionMail) Process(ctx context.Context, payload []byte) error {
	var p SubscriptionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", SubscriptionMailKey, err)
	}
	return j.mailer.Send(ctx, BuildSubscriptionMessage(p))
}

// BuildSubscriptionMessage maps the payload to the outgoing message.
func BuildSubscriptionMessage(p SubscriptionPayload) mail.Message {
	meetup := p.Subscription.Meetup
	return mail.Message{
		To:       meetup.User.Email,
		ToName:   meetup.User.Name,
		Subject:  fmt.Sprintf("Nova inscrição no meetup: %s", meetup.Title),
		Template: "subscription",
		Context: map[string]interface{}{
			"owner":      meetup.User.Name,
			"subscriber": p.Subscription.User.Name,
			"meetup":     meetup.Title,
			"date":       FormatDate(meetup.Date),
			"location":   meetup.Location,
		},
	}
}

// UnsubscriptionMail tells a meetup owner that a subscriber cancelled.
type UnsubscriptionMail struct {
	mailer mail.Mailer
}

// NewUnsubscriptionMail creates the handler.
func NewUnsubscriptionMail(mailer mail.Mailer) *UnsubscriptionMail {
	return &UnsubscriptionMail{mailer: mailer}
}

// Key implements queue.Handler.
func (*UnsubscriptionMail) Key() string { return UnsubscriptionMailKey }

// Process implements queue.Handler.
func (j *UnsubscriptionMail) Process(ctx context.Context, payload []byte) error {
	var p UnsubscriptionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", UnsubscriptionMailKey, err)
	}
	return j.mailer.Send(ctx, BuildUnsubscriptionMessage(p))
}

// BuildUnsubscriptionMessage maps the payload to the outgoing message.
func BuildUnsubscriptionMessage(p UnsubscriptionPayload) mail.Message {
	return mail.Message{
		To:       p.Meetup.User.Email,
		ToName:   p.Meetup.User.Name,
		Subject:  fmt.Sprintf("Inscrição cancelada no meetup %s", p.Meetup.Title),
		Template: "unsubscription",
		Context: map[string]interface{}{
			"owner":      p.Meetup.User.Name,
			"subscriber": p.User.Name,
			"meetup":     p.Meetup.Title,
			"date":       FormatDate(p.Meetup.Date),
			"location":   p.Meetup.Location,
		},
	}
}
