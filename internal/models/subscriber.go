package models

// Category segments subscribers for targeted sends.
type Category = string

const (
	CategoryPromotional Category = "promotional"
	CategoryTechnical   Category = "technical"
	CategoryNewsletter  Category = "newsletter"

	// MaxSubscriberCategories bounds how many categories one subscriber may hold.
	MaxSubscriberCategories = 3
)

// AllowedCategories is the fixed category enumeration.
var AllowedCategories = []Category{CategoryPromotional, CategoryTechnical, CategoryNewsletter}

// IsAllowedCategory reports whether c belongs to AllowedCategories.
func IsAllowedCategory(c string) bool {
	for _, allowed := range AllowedCategories {
		if c == allowed {
			return true
		}
	}
	return false
}

// SubscriberModel is one registered recipient. Rows are never updated or deleted.
type SubscriberModel struct {
	Base
	Name       string       `json:"name"       gorm:"not null"`
	Email      string       `json:"email"      gorm:"uniqueIndex;not null"`
	Categories CategoryList `json:"categories" gorm:"type:text;not null"`
}

func (SubscriberModel) TableName() string { return "subscribers" }
