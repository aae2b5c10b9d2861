package subscriber

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/mx-space/mailcast/internal/database"
	"github.com/mx-space/mailcast/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	insertSQL = regexp.QuoteMeta("INSERT INTO `subscribers`")
	selectSQL = regexp.QuoteMeta("SELECT * FROM `subscribers`")
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := database.FromConn(conn)
	require.NoError(t, err)
	return db, mock
}

func subscriberRows(subs ...models.SubscriberModel) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name", "email", "categories"})
	now := time.Now()
	for _, s := range subs {
		rows.AddRow(s.ID, now, now, s.Name, s.Email, s.Categories.String())
	}
	return rows
}

func TestStoreInsertPersistsJoinedCategories(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(insertSQL).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "Jane Doe", "jane@x.com", "newsletter,technical").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sub := &models.SubscriberModel{
		Name:       "Jane Doe",
		Email:      "jane@x.com",
		Categories: models.CategoryList{"newsletter", "technical"},
	}
	require.NoError(t, store.Insert(context.Background(), sub))
	assert.Len(t, sub.ID, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreInsertDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(insertSQL).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'jane@x.com' for key 'idx_subscribers_email'"})
	mock.ExpectRollback()

	err := store.Insert(context.Background(), &models.SubscriberModel{
		Name: "Jane", Email: "jane@x.com", Categories: models.CategoryList{"newsletter"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreInsertOtherFailure(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(insertSQL).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := store.Insert(context.Background(), &models.SubscriberModel{
		Name: "Jane", Email: "jane@x.com", Categories: models.CategoryList{"newsletter"},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
	assert.Contains(t, err.Error(), "insert subscriber")
}

func TestStoreListAllKeepsStoreOrder(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery(selectSQL).WillReturnRows(subscriberRows(
		models.SubscriberModel{Base: models.Base{ID: "b"}, Name: "Bob", Email: "bob@x.com", Categories: models.CategoryList{"technical"}},
		models.SubscriberModel{Base: models.Base{ID: "a"}, Name: "Ann", Email: "ann@x.com", Categories: models.CategoryList{"newsletter", "promotional"}},
	))

	items, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "bob@x.com", items[0].Email)
	assert.Equal(t, models.CategoryList{"newsletter", "promotional"}, items[1].Categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreFilterByCategory(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery(selectSQL).WillReturnRows(subscriberRows(
		models.SubscriberModel{Base: models.Base{ID: "1"}, Name: "Ann", Email: "ann@x.com", Categories: models.CategoryList{"newsletter"}},
		models.SubscriberModel{Base: models.Base{ID: "2"}, Name: "Bob", Email: "bob@x.com", Categories: models.CategoryList{"technical"}},
		models.SubscriberModel{Base: models.Base{ID: "3"}, Name: "Cid", Email: "cid@x.com", Categories: models.CategoryList{"promotional", "newsletter"}},
	))

	items, err := store.FilterByCategory(context.Background(), "newsletter")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "ann@x.com", items[0].Email)
	assert.Equal(t, "cid@x.com", items[1].Email)
}

func TestStoreFilterByCategoryIsCaseSensitive(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery(selectSQL).WillReturnRows(subscriberRows(
		models.SubscriberModel{Base: models.Base{ID: "1"}, Name: "Ann", Email: "ann@x.com", Categories: models.CategoryList{"newsletter"}},
	))

	items, err := store.FilterByCategory(context.Background(), "Newsletter")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStoreListAllError(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery(selectSQL).WillReturnError(errors.New("db down"))

	_, err := store.FilterByCategory(context.Background(), "newsletter")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list subscribers")
}
