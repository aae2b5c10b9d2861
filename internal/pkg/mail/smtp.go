package mail

import (
	"context"
	"fmt"

	"github.com/mx-space/mailcast/internal/config"
	"gopkg.in/gomail.v2"
)

// SMTPClient delivers campaigns over SMTP, one message per recipient.
// SMTP has no contact store, so CreateContact does nothing.
type SMTPClient struct {
	dialer *gomail.Dialer
}

func NewSMTPClient(cfg config.SMTPConfig) *SMTPClient {
	return &SMTPClient{dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)}
}

func (c *SMTPClient) Name() string { return "smtp" }

func (c *SMTPClient) CreateContact(ctx context.Context, contact Contact) error { return nil }

func (c *SMTPClient) SendBulk(ctx context.Context, msg BulkMessage) (SendResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	messages := make([]*gomail.Message, 0, len(msg.Recipients))
	for _, r := range msg.Recipients {
		m := gomail.NewMessage()
		m.SetAddressHeader("From", msg.FromEmail, msg.FromName)
		m.SetAddressHeader("To", r.Email, r.Name)
		m.SetHeader("Subject", msg.Subject)
		if msg.UnsubscribeGroupID != "" {
			m.SetHeader("X-Unsubscribe-Group", msg.UnsubscribeGroupID)
		}
		m.SetBody("text/html", msg.HTML)
		messages = append(messages, m)
	}

	sender, err := c.dialer.Dial()
	if err != nil {
		return nil, fmt.Errorf("smtp dial %s:%d: %w", c.dialer.Host, c.dialer.Port, err)
	}
	defer sender.Close()

	if err := gomail.Send(sender, messages...); err != nil {
		return nil, fmt.Errorf("smtp send_bulk: %w", err)
	}
	return map[string]interface{}{"sent": len(messages)}, nil
}
