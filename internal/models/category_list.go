package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

const categorySeparator = ","

// CategoryList stores a subscriber's categories as a comma-joined TEXT column.
type CategoryList []string

func (l CategoryList) Value() (driver.Value, error) {
	return l.String(), nil
}

func (l *CategoryList) Scan(value interface{}) error {
	if l == nil {
		return fmt.Errorf("models.CategoryList: Scan on nil pointer")
	}

	var raw string
	switch v := value.(type) {
	case nil:
		*l = CategoryList{}
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("models.CategoryList: unsupported Scan type %T", value)
	}

	*l = ParseCategoryList(raw)
	return nil
}

// String returns the stored, comma-joined form.
func (l CategoryList) String() string {
	return strings.Join(l, categorySeparator)
}

// Contains reports whether category is a member. Matching is exact and case-sensitive.
func (l CategoryList) Contains(category string) bool {
	for _, c := range l {
		if c == category {
			return true
		}
	}
	return false
}

// ParseCategoryList splits a stored category column.
func ParseCategoryList(raw string) CategoryList {
	if raw == "" {
		return CategoryList{}
	}
	return CategoryList(strings.Split(raw, categorySeparator))
}
