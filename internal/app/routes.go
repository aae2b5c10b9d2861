package app

import (
	"github.com/gin-gonic/gin"
	"github.com/mx-space/mailcast/internal/metrics"
	"github.com/mx-space/mailcast/internal/modules/campaign"
	"github.com/mx-space/mailcast/internal/modules/health"
	"github.com/mx-space/mailcast/internal/modules/subscriber"
	"github.com/mx-space/mailcast/internal/pkg/events"
	"github.com/mx-space/mailcast/internal/pkg/response"
)

func (a *App) registerRoutes() {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	var publisher events.Publisher = events.Nop{}
	if a.rc != nil {
		publisher = events.NewRedisPublisher(a.rc)
	}

	store := subscriber.NewStore(a.db)

	subscriberSvc := subscriber.NewService(store, a.provider, publisher, a.logger.Named("subscriber"))
	subscriber.NewHandler(subscriberSvc).RegisterRoutes(r.Group(""))

	dispatcher := campaign.NewDispatcher(store, a.provider, a.logger.Named("campaign"),
		campaign.WithStrictCategory(a.cfg.Campaign.StrictCategory),
		campaign.WithPublisher(publisher),
	)
	campaign.NewHandler(dispatcher).RegisterRoutes(r.Group(""))

	health.RegisterRoutes(r.Group(""), a.db, a.rc)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}
