package subscriber

import (
	"errors"

	"github.com/mx-space/mailcast/internal/models"
)

// ErrDuplicateEmail is returned when the email is already registered.
var ErrDuplicateEmail = errors.New("email already subscribed")

type SubscribeDTO struct {
	Name       string   `json:"name"       binding:"required,notblank"`
	Email      string   `json:"email"      binding:"required,email"`
	Categories []string `json:"categories" binding:"required,min=1,max=3,dive,oneof=promotional technical newsletter"`
}

type subscribeResponse struct {
	Message    string `json:"message"`
	Subscriber string `json:"subscriber"`
}

func (dto *SubscribeDTO) toModel() *models.SubscriberModel {
	return &models.SubscriberModel{
		Name:       dto.Name,
		Email:      dto.Email,
		Categories: models.CategoryList(dto.Categories),
	}
}
