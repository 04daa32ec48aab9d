package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// SMTPMailer sends messages through an SMTP relay using gomail.
type SMTPMailer struct {
	dialer    *gomail.Dialer
	from      string
	fromName  string
	templates *template.Template
}

// NewSMTPMailer creates a mailer pointed at the given SMTP relay.
func NewSMTPMailer(host string, port int, username, password, from, fromName string) (*SMTPMailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}

	return &SMTPMailer{
		dialer:    gomail.NewDialer(host, port, username, password),
		from:      from,
		fromName:  fromName,
		templates: tmpl,
	}, nil
}

// render produces the HTML body for a message.
func (m *SMTPMailer) render(msg Message) (string, error) {
	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, msg.Template+".html", msg.Context); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", msg.Template, err)
	}
	return body.String(), nil
}

// Send renders the message template and delivers it.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := m.render(msg)
	if err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.from, m.fromName)
	gm.SetAddressHeader("To", msg.To, msg.ToName)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	return nil
}
