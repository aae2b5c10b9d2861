// Package events publishes domain events for other services to react to
// (CRM sync, dashboards). Publishing is best effort and never fails a request.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgredis "github.com/mx-space/mailcast/internal/pkg/redis"
)

// Channel is the Redis pub/sub channel events are published on.
const Channel = "mailcast:events"

const (
	TypeSubscriberCreated  = "subscriber.created"
	TypeCampaignDispatched = "campaign.dispatched"
)

type Event struct {
	Type               string    `json:"type"`
	SubscriberID       string    `json:"subscriber_id,omitempty"`
	Email              string    `json:"email,omitempty"`
	Categories         []string  `json:"categories,omitempty"`
	Category           string    `json:"category,omitempty"`
	Recipients         int       `json:"recipients,omitempty"`
	UnsubscribeGroupID string    `json:"unsubscribe_group_id,omitempty"`
	At                 time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Nop discards events. Used when Redis is disabled.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// RedisPublisher publishes JSON-encoded events on Channel.
type RedisPublisher struct {
	rc *pkgredis.Client
}

func NewRedisPublisher(rc *pkgredis.Client) *RedisPublisher {
	return &RedisPublisher{rc: rc}
}

func (p *RedisPublisher) Publish(ctx context.Context, evt Event) error {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", evt.Type, err)
	}
	if err := p.rc.Publish(ctx, Channel, payload); err != nil {
		return fmt.Errorf("publish %s event: %w", evt.Type, err)
	}
	return nil
}
