package decks

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bcheng02/flash-cards/internal/common"
	"github.com/bcheng02/flash-cards/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var deckCols = []string{"id", "user_id", "parent_id", "name", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_RootDeck(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+decks\s*\(user_id,\s*parent_id,\s*name\).*RETURNING\s+id,\s*created_at,\s*updated_at`).
		WithArgs(int64(1), nil, "Spanish").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))

	got, err := repo.Create(context.Background(), &models.Deck{UserID: 1, Name: "Spanish"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
	assert.Nil(t, got.ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+decks`).WillReturnError(errors.New("boom"))

	_, err := repo.Create(context.Background(), &models.Deck{UserID: 1, Name: "x"})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*boom`), err.Error())
}

func TestGetByID_ScansNullableParent(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*user_id,\s*parent_id.*FROM\s+decks\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(deckCols).AddRow(int64(11), int64(1), int64(10), "Verbs", now, now))

	got, err := repo.GetByID(context.Background(), 11)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, int64(10), *got.ParentID)
	assert.Equal(t, "Verbs", got.Name)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT.*FROM\s+decks\s+WHERE\s+id`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	rows := sqlmock.NewRows(deckCols).
		AddRow(int64(10), int64(1), nil, "Spanish", now, now).
		AddRow(int64(11), int64(1), int64(10), "Verbs", now, now)
	mock.ExpectQuery(`(?s)^SELECT.*FROM\s+decks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+id`).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].ParentID)
	assert.Equal(t, int64(10), *got[1].ParentID)
}

func TestListByUser_EmptyIsNotNil(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT.*FROM\s+decks\s+WHERE\s+user_id`).
		WillReturnRows(sqlmock.NewRows(deckCols))

	got, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^UPDATE\s+decks\s+SET\s+name\s*=\s*\$2,\s*parent_id\s*=\s*\$3`).
		WithArgs(int64(5), "New", nil).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &models.Deck{ID: 5, Name: "New"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE\s+FROM\s+decks\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^DELETE\s+FROM\s+decks`).
		WithArgs(int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 5))
	assert.ErrorIs(t, repo.Delete(context.Background(), 6), common.ErrorNotFound)
}

func TestOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT\s+user_id\s+FROM\s+decks\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(3)))
	mock.ExpectQuery(`^SELECT\s+user_id\s+FROM\s+decks`).
		WithArgs(int64(6)).
		WillReturnError(sql.ErrNoRows)

	owner, err := repo.Owner(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), owner)

	_, err = repo.Owner(context.Background(), 6)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCountCards_UsesRecursiveSubtree(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^WITH\s+RECURSIVE\s+subtree.*SELECT\s+COUNT\(f\.id\)\s+FROM\s+flashcards`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))

	n, err := repo.CountCards(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestInSubtree(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^WITH\s+RECURSIVE\s+subtree.*SELECT\s+EXISTS`).
		WithArgs(int64(10), int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	found, err := repo.InSubtree(context.Background(), 10, 12)
	require.NoError(t, err)
	assert.True(t, found)
}
