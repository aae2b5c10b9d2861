package campaign

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/mailcast/internal/pkg/response"
	"github.com/mx-space/mailcast/internal/pkg/validation"
)

type Handler struct{ dispatcher *Dispatcher }

func NewHandler(d *Dispatcher) *Handler { return &Handler{dispatcher: d} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/send-bulk", h.sendBulk)
}

// POST /send-bulk
func (h *Handler) sendBulk(c *gin.Context) {
	var dto BulkEmailDTO
	if !validation.BindJSON(c, &dto) {
		return
	}
	res, err := h.dispatcher.Send(c.Request.Context(), &dto)
	if err != nil {
		if errors.Is(err, ErrUnknownCategory) {
			response.ValidationFailed(c, map[string][]string{"category": {"oneof"}})
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, res)
}
