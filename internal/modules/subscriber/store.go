package subscriber

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/mx-space/mailcast/internal/models"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

// Store persists subscribers. Rows are insert-only.
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// Insert writes one row in its own transaction. The unique index on email is
// the only duplicate check; concurrent inserts of one address race on it.
func (s *Store) Insert(ctx context.Context, sub *models.SubscriberModel) error {
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateEmail, sub.Email)
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

// ListAll returns every subscriber in store order.
func (s *Store) ListAll(ctx context.Context) ([]models.SubscriberModel, error) {
	var items []models.SubscriberModel
	if err := s.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return items, nil
}

// FilterByCategory keeps the subscribers whose categories contain category.
// This scans the whole table; an indexed category->subscriber mapping is
// needed once the list grows past what fits comfortably in one query.
func (s *Store) FilterByCategory(ctx context.Context, category string) ([]models.SubscriberModel, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.SubscriberModel, 0, len(all))
	for _, sub := range all {
		if sub.Categories.Contains(category) {
			out = append(out, sub)
		}
	}
	return out, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
