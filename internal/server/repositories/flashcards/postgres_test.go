package flashcards

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bcheng02/flash-cards/internal/common"
	"github.com/bcheng02/flash-cards/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+flashcards\s*\(deck_id,\s*front,\s*back\)`).
		WithArgs(int64(10), "hola", "hello").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))

	got, err := repo.Create(context.Background(), &models.Flashcard{DeckID: 10, Front: "hola", Back: "hello"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+flashcards`).WillReturnError(errors.New("fk violation"))

	_, err := repo.Create(context.Background(), &models.Flashcard{DeckID: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*deck_id.*FROM\s+flashcards`).
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListByDeck(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "deck_id", "front", "back", "created_at"}).
		AddRow(int64(1), int64(10), "uno", "one", now).
		AddRow(int64(2), int64(10), "dos", "two", now)
	mock.ExpectQuery(`(?s)^SELECT.*FROM\s+flashcards\s+WHERE\s+deck_id\s*=\s*\$1\s+ORDER\s+BY\s+id`).
		WithArgs(int64(10)).
		WillReturnRows(rows)

	got, err := repo.ListByDeck(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "dos", got[1].Front)
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^UPDATE\s+flashcards\s+SET\s+front\s*=\s*\$2,\s*back\s*=\s*\$3`).
		WithArgs(int64(1), "uno", "one!").
		WillReturnRows(sqlmock.NewRows([]string{"deck_id", "created_at"}).AddRow(int64(10), now))

	got, err := repo.Update(context.Background(), &models.Flashcard{ID: 1, Front: "uno", Back: "one!"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.DeckID)
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE\s+FROM\s+flashcards`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 1), common.ErrorNotFound)
}

func TestOwner_JoinsDeck(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+d\.user_id\s+FROM\s+flashcards\s+f\s+JOIN\s+decks\s+d`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(7)))

	owner, err := repo.Owner(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), owner)
}
