// Package mail renders and sends transactional email. It is the only
// side effect the notification handlers perform.
package mail

import "context"

// Message describes a single outgoing email: who gets it, what it says
// and which template renders the body from the context values.
type Message struct {
	To       string
	ToName   string
	Subject  string
	Template string
	Context  map[string]interface{}
}

// Mailer transmits a rendered message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
