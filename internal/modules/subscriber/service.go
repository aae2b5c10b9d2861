package subscriber

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mx-space/mailcast/internal/metrics"
	"github.com/mx-space/mailcast/internal/models"
	"github.com/mx-space/mailcast/internal/pkg/events"
	"github.com/mx-space/mailcast/internal/pkg/mail"
	"go.uber.org/zap"
)

type Service struct {
	store    *Store
	provider mail.Provider
	events   events.Publisher
	log      *zap.Logger
}

func NewService(store *Store, provider mail.Provider, publisher events.Publisher, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{store: store, provider: provider, events: publisher, log: log}
}

// Register persists the subscriber and then syncs it to the provider as a
// contact. The row is committed before the sync, so a sync failure leaves
// the subscriber stored locally but unknown to the provider.
func (s *Service) Register(ctx context.Context, dto *SubscribeDTO) (*models.SubscriberModel, error) {
	sub := dto.toModel()
	if err := s.store.Insert(ctx, sub); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			metrics.RegistrationFailures.WithLabelValues("duplicate").Inc()
		} else {
			metrics.RegistrationFailures.WithLabelValues("store").Inc()
		}
		return nil, err
	}
	metrics.SubscribersRegistered.Inc()
	s.log.Info("subscriber persisted",
		zap.String("id", sub.ID),
		zap.String("email", sub.Email),
		zap.Strings("categories", sub.Categories),
	)

	if err := s.provider.CreateContact(ctx, ContactFor(sub)); err != nil {
		metrics.RegistrationFailures.WithLabelValues("contact_sync").Inc()
		s.log.Error("contact sync failed, subscriber stored locally only",
			zap.String("email", sub.Email),
			zap.String("provider", s.provider.Name()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("sync contact %s: %w", sub.Email, err)
	}

	if err := s.events.Publish(ctx, events.Event{
		Type:         events.TypeSubscriberCreated,
		SubscriberID: sub.ID,
		Email:        sub.Email,
		Categories:   sub.Categories,
	}); err != nil {
		s.log.Warn("publish event failed", zap.String("type", events.TypeSubscriberCreated), zap.Error(err))
	}
	return sub, nil
}

// ContactFor builds the provider contact for a stored subscriber.
func ContactFor(sub *models.SubscriberModel) mail.Contact {
	first, last := splitName(sub.Name)
	return mail.Contact{
		Email:        sub.Email,
		FirstName:    first,
		LastName:     last,
		CustomFields: map[string]string{mail.ContactCategoriesField: sub.Categories.String()},
	}
}

// splitName returns the first and last whitespace-separated words. A
// single-word name is both.
func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], parts[len(parts)-1]
}
