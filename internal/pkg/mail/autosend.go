package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
)

const (
	autosendContactsPath = "/contacts"
	autosendBulkPath     = "/mails/bulk"
)

// AutosendClient calls the Autosend REST API.
type AutosendClient struct {
	http *resty.Client
}

type autosendContactRequest struct {
	Email        string            `json:"email"`
	FirstName    string            `json:"firstName"`
	LastName     string            `json:"lastName"`
	UserID       *string           `json:"userId"`
	CustomFields map[string]string `json:"customFields,omitempty"`
}

type autosendAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type autosendBulkRequest struct {
	Recipients         []Recipient            `json:"recipients"`
	From               autosendAddress        `json:"from"`
	Subject            string                 `json:"subject"`
	HTML               string                 `json:"html"`
	DynamicData        map[string]interface{} `json:"dynamicData"`
	UnsubscribeGroupID string                 `json:"unsubscribeGroupId,omitempty"`
}

func NewAutosendClient(baseURL, apiKey string) *AutosendClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	return &AutosendClient{http: c}
}

func (c *AutosendClient) Name() string { return "autosend" }

func (c *AutosendClient) CreateContact(ctx context.Context, contact Contact) error {
	_, err := c.post(ctx, "create_contact", autosendContactsPath, autosendContactRequest{
		Email:        contact.Email,
		FirstName:    contact.FirstName,
		LastName:     contact.LastName,
		UserID:       contact.UserID,
		CustomFields: contact.CustomFields,
	})
	return err
}

func (c *AutosendClient) SendBulk(ctx context.Context, msg BulkMessage) (SendResult, error) {
	dynamic := msg.DynamicData
	if dynamic == nil {
		dynamic = map[string]interface{}{}
	}
	return c.post(ctx, "send_bulk", autosendBulkPath, autosendBulkRequest{
		Recipients:         msg.Recipients,
		From:               autosendAddress{Email: msg.FromEmail, Name: msg.FromName},
		Subject:            msg.Subject,
		HTML:               msg.HTML,
		DynamicData:        dynamic,
		UnsubscribeGroupID: msg.UnsubscribeGroupID,
	})
}

func (c *AutosendClient) post(ctx context.Context, op, path string, body interface{}) (SendResult, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).Post(path)
	if err != nil {
		return nil, fmt.Errorf("autosend %s: %w", op, err)
	}
	if resp.IsError() {
		return nil, &ProviderError{Provider: c.Name(), Operation: op, Status: resp.StatusCode(), Body: resp.String()}
	}

	return decodeResult(resp.Body()), nil
}

// decodeResult keeps a 2xx body as-is: JSON of any shape is decoded, anything
// else is returned as text. An empty body yields nil.
func decodeResult(raw []byte) SendResult {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var result interface{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return string(raw)
	}
	return result
}
