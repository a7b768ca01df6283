package mailer

import (
	"context"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
}

// Send sends an email via Mailgun. html is optional; if provided it will be used as HTML body.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}

// SendWelcome greets a newly registered user.
func (m *Mailgun) SendWelcome(ctx context.Context, to, fullName string) error {
	subject := "Welcome to the warehouse platform"
	text := fmt.Sprintf("Hi %s,\n\nYour account has been created. You can now sign in and start working.\n", fullName)
	return m.Send(ctx, to, subject, text, "")
}

// SendPasswordReset delivers a reset link built from the given token.
func (m *Mailgun) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	subject := "Password reset request"
	text := fmt.Sprintf("A password reset was requested for your account.\n\nOpen the link below to choose a new password. The link expires in 30 minutes.\n\n%s\n\nIf you did not request this, you can ignore this email.\n", resetURL)
	return m.Send(ctx, to, subject, text, "")
}

// SendEmailVerification delivers an email-verification link.
func (m *Mailgun) SendEmailVerification(ctx context.Context, to, verifyURL string) error {
	subject := "Verify your email address"
	text := fmt.Sprintf("Please confirm your email address by opening the link below.\n\n%s\n", verifyURL)
	return m.Send(ctx, to, subject, text, "")
}
