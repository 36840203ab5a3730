package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/Keoroanthony/go-customers/internal/models"
)

// Message is a rendered email.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

type EmailSender interface {
	SendEmail(ctx context.Context, to string, msg Message) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, text string) error
}

// Notifier tells customers about account events. A nil sender disables that
// channel.
type Notifier struct {
	email EmailSender
	sms   SMSSender
	log   *slog.Logger
}

func New(email EmailSender, sms SMSSender, log *slog.Logger) *Notifier {
	return &Notifier{email: email, sms: sms, log: log}
}

// Welcome is sent after self-registration.
func (n *Notifier) Welcome(ctx context.Context, c *models.Customer) error {
	return n.sendEmail(ctx, c, welcomeMessage(c))
}

// TemporaryPassword delivers the password generated when an admin creates
// the account; it is never returned by the API.
func (n *Notifier) TemporaryPassword(ctx context.Context, c *models.Customer, password string) error {
	return n.sendEmail(ctx, c, temporaryPasswordMessage(c, password))
}

// PasswordChanged alerts the customer by email and, when a cellphone is on
// file, by SMS. Both channels are attempted.
func (n *Notifier) PasswordChanged(ctx context.Context, c *models.Customer) error {
	var result *multierror.Error

	if err := n.sendEmail(ctx, c, passwordChangedMessage(c)); err != nil {
		result = multierror.Append(result, err)
	}

	if n.sms != nil && c.Data.Cellphone != "" {
		if err := n.sms.SendSMS(ctx, c.Data.Cellphone, passwordChangedSMS()); err != nil {
			result = multierror.Append(result, fmt.Errorf("sms to customer %d: %w", c.ID, err))
		}
	}

	return result.ErrorOrNil()
}

func (n *Notifier) sendEmail(ctx context.Context, c *models.Customer, msg Message) error {
	if n.email == nil {
		n.log.DebugContext(ctx, "email notifications disabled", "customer_id", c.ID, "subject", msg.Subject)
		return nil
	}
	if err := n.email.SendEmail(ctx, c.Email, msg); err != nil {
		return fmt.Errorf("email to customer %d: %w", c.ID, err)
	}
	return nil
}
