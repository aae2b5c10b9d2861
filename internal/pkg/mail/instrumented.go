package mail

import (
	"context"

	"github.com/mx-space/mailcast/internal/metrics"
)

type instrumented struct {
	Provider
}

// Instrument counts every provider call by operation and outcome.
func Instrument(p Provider) Provider {
	return &instrumented{Provider: p}
}

func (i *instrumented) CreateContact(ctx context.Context, contact Contact) error {
	err := i.Provider.CreateContact(ctx, contact)
	metrics.ProviderRequests.WithLabelValues(i.Name(), "create_contact", outcome(err)).Inc()
	return err
}

func (i *instrumented) SendBulk(ctx context.Context, msg BulkMessage) (SendResult, error) {
	res, err := i.Provider.SendBulk(ctx, msg)
	metrics.ProviderRequests.WithLabelValues(i.Name(), "send_bulk", outcome(err)).Inc()
	return res, err
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
