package metrics

import (
	"net/http"

	"github.com/mx-space/mailcast/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailcast_http_requests_total",
		Help: "Total number of HTTP requests handled, by route and status code",
	}, []string{"method", "route", "status"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mailcast_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	SubscribersRegistered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mailcast_subscribers_registered_total",
		Help: "Total number of subscribers persisted",
	})
	RegistrationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailcast_registration_failures_total",
		Help: "Total number of failed registrations by reason",
	}, []string{"reason"})

	CampaignsDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailcast_campaigns_dispatched_total",
		Help: "Total number of bulk sends forwarded to the provider, by category",
	}, []string{"category"})
	CampaignRecipients = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailcast_campaign_recipients_total",
		Help: "Total number of recipients addressed by bulk sends, by category",
	}, []string{"category"})
	CampaignsEmpty = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailcast_campaigns_empty_total",
		Help: "Total number of bulk sends that matched no subscribers, by category",
	}, []string{"category"})

	ProviderRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mailcast_provider_requests_total",
		Help: "Total number of email provider calls by provider, operation and outcome",
	}, []string{"provider", "operation", "outcome"})
)

func init() {
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(SubscribersRegistered)
	prometheus.MustRegister(RegistrationFailures)
	prometheus.MustRegister(CampaignsDispatched)
	prometheus.MustRegister(CampaignRecipients)
	prometheus.MustRegister(CampaignsEmpty)
	prometheus.MustRegister(ProviderRequests)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// CategoryLabel bounds label cardinality: free-form campaign categories
// collapse into "other".
func CategoryLabel(category string) string {
	if models.IsAllowedCategory(category) {
		return category
	}
	return "other"
}
