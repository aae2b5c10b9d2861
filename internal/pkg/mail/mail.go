// Package mail talks to the third-party email delivery provider. Two calls
// are consumed: contact sync on registration and bulk send on campaigns.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/mx-space/mailcast/internal/config"
)

// ErrProviderNotConfigured is returned for an unknown mail.provider value.
var ErrProviderNotConfigured = errors.New("mail provider not configured")

// Recipient is the minimal projection of a subscriber needed to address a send.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ContactCategoriesField is the custom field carrying the comma-joined categories.
const ContactCategoriesField = "categories"

// Contact is synced to the provider once per registration.
type Contact struct {
	Email        string
	FirstName    string
	LastName     string
	UserID       *string
	CustomFields map[string]string
}

// BulkMessage is one campaign send. UnsubscribeGroupID is empty when the
// category has no group; providers omit it rather than reject the send.
type BulkMessage struct {
	Recipients         []Recipient
	FromEmail          string
	FromName           string
	Subject            string
	HTML               string
	DynamicData        map[string]interface{}
	UnsubscribeGroupID string
}

// SendResult is the provider acknowledgement, returned to callers verbatim.
// It holds whatever the provider answered: decoded JSON of any shape, or the
// raw text when the body is not JSON.
type SendResult interface{}

// Provider is an email delivery backend.
type Provider interface {
	Name() string
	CreateContact(ctx context.Context, contact Contact) error
	SendBulk(ctx context.Context, msg BulkMessage) (SendResult, error)
}

// ProviderError is a non-2xx answer from a provider API.
type ProviderError struct {
	Provider  string
	Operation string
	Status    int
	Body      string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Provider, e.Operation, e.Status, e.Body)
}

// New builds the provider selected by cfg.Provider. Credentials are not
// checked here; a missing key surfaces on the first provider call.
func New(cfg config.MailConfig) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderAutosend, "":
		return NewAutosendClient(cfg.Autosend.BaseURL, cfg.Autosend.APIKey), nil
	case config.ProviderResend:
		return NewResendClient(cfg.Resend.APIKey, cfg.Resend.AudienceID, "").
			WithCategoryAudiences(cfg.Resend.CategoryAudiences), nil
	case config.ProviderSMTP:
		return NewSMTPClient(cfg.SMTP), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrProviderNotConfigured, cfg.Provider)
	}
}
