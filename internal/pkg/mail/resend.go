package mail

import (
	"context"
	"fmt"
	netmail "net/mail"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"
)

// resendBatchLimit is the maximum number of emails per batch call.
const resendBatchLimit = 100

const resendUnsubscribeTag = "unsubscribe_group"

// ResendClient sends through Resend. Contacts go into one configured audience;
// bulk sends are split into batch calls of one email per recipient.
type ResendClient struct {
	client            *resend.Client
	audienceID        string
	categoryAudiences map[string]string
}

// NewResendClient creates a Resend client. baseURL overrides the API endpoint
// when non-empty.
func NewResendClient(apiKey, audienceID, baseURL string) *ResendClient {
	client := resend.NewClient(apiKey)
	if baseURL != "" {
		if u, err := url.Parse(baseURL); err == nil {
			client.BaseURL = u
		}
	}
	return &ResendClient{client: client, audienceID: audienceID}
}

func (c *ResendClient) Name() string { return "resend" }

// WithCategoryAudiences maps categories to Resend audiences. Resend contacts
// have no custom fields, so a contact's categories are carried as membership
// of the matching audiences.
func (c *ResendClient) WithCategoryAudiences(audiences map[string]string) *ResendClient {
	c.categoryAudiences = audiences
	return c
}

// CreateContact adds the contact to the default audience and to the audience
// of each of its categories.
func (c *ResendClient) CreateContact(ctx context.Context, contact Contact) error {
	audiences := c.audiencesFor(contact)
	if len(audiences) == 0 {
		return fmt.Errorf("resend create_contact: no audience configured for %s", contact.Email)
	}
	for _, audienceID := range audiences {
		_, err := c.client.Contacts.CreateWithContext(ctx, &resend.CreateContactRequest{
			Email:      contact.Email,
			AudienceId: audienceID,
			FirstName:  contact.FirstName,
			LastName:   contact.LastName,
		})
		if err != nil {
			return fmt.Errorf("resend create_contact in %s: %w", audienceID, err)
		}
	}
	return nil
}

func (c *ResendClient) audiencesFor(contact Contact) []string {
	var out []string
	seen := map[string]bool{}
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	add(c.audienceID)
	if raw := contact.CustomFields[ContactCategoriesField]; raw != "" {
		for _, category := range strings.Split(raw, ",") {
			add(c.categoryAudiences[category])
		}
	}
	return out
}

func (c *ResendClient) SendBulk(ctx context.Context, msg BulkMessage) (SendResult, error) {
	from := formatAddress(msg.FromEmail, msg.FromName)
	var tags []resend.Tag
	if msg.UnsubscribeGroupID != "" {
		tags = []resend.Tag{{Name: resendUnsubscribeTag, Value: msg.UnsubscribeGroupID}}
	}

	data := make([]interface{}, 0, len(msg.Recipients))
	var batchErrors []interface{}
	for start := 0; start < len(msg.Recipients); start += resendBatchLimit {
		end := min(start+resendBatchLimit, len(msg.Recipients))

		batch := make([]*resend.SendEmailRequest, 0, end-start)
		for _, r := range msg.Recipients[start:end] {
			batch = append(batch, &resend.SendEmailRequest{
				From:    from,
				To:      []string{formatAddress(r.Email, r.Name)},
				Subject: msg.Subject,
				Html:    msg.HTML,
				Tags:    tags,
			})
		}

		resp, err := c.client.Batch.SendWithContext(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("resend send_bulk: %w", err)
		}
		for _, sent := range resp.Data {
			data = append(data, map[string]interface{}{"id": sent.Id})
		}
		for _, e := range resp.Errors {
			batchErrors = append(batchErrors, e)
		}
	}

	result := map[string]interface{}{"data": data}
	if len(batchErrors) > 0 {
		result["errors"] = batchErrors
	}
	return result, nil
}

func formatAddress(email, name string) string {
	if name == "" {
		return email
	}
	return (&netmail.Address{Name: name, Address: email}).String()
}
