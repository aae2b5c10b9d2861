package subscriber

import (
	"github.com/gin-gonic/gin"
	"github.com/mx-space/mailcast/internal/pkg/response"
	"github.com/mx-space/mailcast/internal/pkg/validation"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/subscribe", h.subscribe)
}

// POST /subscribe
func (h *Handler) subscribe(c *gin.Context) {
	var dto SubscribeDTO
	if !validation.BindJSON(c, &dto) {
		return
	}
	sub, err := h.svc.Register(c.Request.Context(), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, subscribeResponse{Message: "Subscriber added", Subscriber: sub.Email})
}
