package campaign

import (
	"context"
	"fmt"

	"github.com/mx-space/mailcast/internal/metrics"
	"github.com/mx-space/mailcast/internal/models"
	"github.com/mx-space/mailcast/internal/pkg/events"
	"github.com/mx-space/mailcast/internal/pkg/mail"
	"go.uber.org/zap"
)

// SubscriberSource finds the subscribers of a category.
type SubscriberSource interface {
	FilterByCategory(ctx context.Context, category string) ([]models.SubscriberModel, error)
}

// Dispatcher resolves a category to recipients and hands one bulk send to
// the provider. There is no retry and no partial-failure accounting: the
// provider's answer is the result.
type Dispatcher struct {
	source   SubscriberSource
	provider mail.Provider
	events   events.Publisher
	log      *zap.Logger
	strict   bool
}

type Option func(*Dispatcher)

// WithStrictCategory rejects categories outside the enumeration with
// ErrUnknownCategory instead of sending without an unsubscribe group.
func WithStrictCategory(strict bool) Option {
	return func(d *Dispatcher) { d.strict = strict }
}

func WithPublisher(p events.Publisher) Option {
	return func(d *Dispatcher) {
		if p != nil {
			d.events = p
		}
	}
}

func NewDispatcher(source SubscriberSource, provider mail.Provider, log *zap.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		source:   source,
		provider: provider,
		events:   events.Nop{},
		log:      log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Resolve projects the matching subscribers in store order.
func (d *Dispatcher) Resolve(ctx context.Context, category string) ([]mail.Recipient, error) {
	subs, err := d.source.FilterByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]mail.Recipient, len(subs))
	for i, s := range subs {
		out[i] = mail.Recipient{Email: s.Email, Name: s.Name}
	}
	return out, nil
}

// BuildPayload assembles the provider request. The HTML is passed through
// unmodified and dynamic data is always empty.
func (d *Dispatcher) BuildPayload(req *BulkEmailDTO, recipients []mail.Recipient) mail.BulkMessage {
	return mail.BulkMessage{
		Recipients:         recipients,
		FromEmail:          req.FromEmail,
		FromName:           req.FromName,
		Subject:            req.Subject,
		HTML:               req.HTML,
		DynamicData:        map[string]interface{}{},
		UnsubscribeGroupID: UnsubscribeGroupFor(req.Category),
	}
}

// Dispatch makes exactly one provider call and returns its answer verbatim.
func (d *Dispatcher) Dispatch(ctx context.Context, msg mail.BulkMessage) (mail.SendResult, error) {
	res, err := d.provider.SendBulk(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("send bulk via %s: %w", d.provider.Name(), err)
	}
	return res, nil
}

// Send runs a campaign. A category with no subscribers is not an error: the
// result carries an "error" field and the provider is not called.
func (d *Dispatcher) Send(ctx context.Context, req *BulkEmailDTO) (mail.SendResult, error) {
	known := models.IsAllowedCategory(req.Category)
	if !known {
		if d.strict {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, req.Category)
		}
		d.log.Warn("bulk send for category outside the enumeration, no unsubscribe group",
			zap.String("category", req.Category))
	}
	label := metrics.CategoryLabel(req.Category)

	recipients, err := d.Resolve(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		metrics.CampaignsEmpty.WithLabelValues(label).Inc()
		d.log.Info("no subscribers for category", zap.String("category", req.Category))
		return map[string]interface{}{"error": NoSubscribersMessage}, nil
	}

	msg := d.BuildPayload(req, recipients)
	res, err := d.Dispatch(ctx, msg)
	if err != nil {
		d.log.Error("bulk send failed",
			zap.String("category", req.Category),
			zap.Int("recipients", len(recipients)),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.CampaignsDispatched.WithLabelValues(label).Inc()
	metrics.CampaignRecipients.WithLabelValues(label).Add(float64(len(recipients)))
	d.log.Info("campaign dispatched",
		zap.String("category", req.Category),
		zap.Int("recipients", len(recipients)),
		zap.String("unsubscribe_group", msg.UnsubscribeGroupID),
	)

	if err := d.events.Publish(ctx, events.Event{
		Type:               events.TypeCampaignDispatched,
		Category:           req.Category,
		Recipients:         len(recipients),
		UnsubscribeGroupID: msg.UnsubscribeGroupID,
	}); err != nil {
		d.log.Warn("publish event failed", zap.String("type", events.TypeCampaignDispatched), zap.Error(err))
	}
	return res, nil
}
