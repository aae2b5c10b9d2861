package campaign

import (
	"errors"

	"github.com/mx-space/mailcast/internal/models"
)

// ErrUnknownCategory rejects a send for a category outside the enumeration.
// Only returned when strict category checking is enabled.
var ErrUnknownCategory = errors.New("unknown category")

// NoSubscribersMessage is the body "error" field for a send that matched nobody.
const NoSubscribersMessage = "No subscribers found in this category"

type BulkEmailDTO struct {
	Category  string `json:"category"   binding:"required"`
	Subject   string `json:"subject"    binding:"required"`
	HTML      string `json:"html"       binding:"required"`
	FromEmail string `json:"from_email" binding:"required,email"`
	FromName  string `json:"from_name"  binding:"required"`
}

// UnsubscribeGroups maps a category to the provider's unsubscribe group.
var UnsubscribeGroups = map[string]string{
	models.CategoryPromotional: "1Z50B",
	models.CategoryTechnical:   "grp_tech_456",
	models.CategoryNewsletter:  "8IV7J",
}

// UnsubscribeGroupFor returns "" for categories with no group.
func UnsubscribeGroupFor(category string) string {
	return UnsubscribeGroups[category]
}
