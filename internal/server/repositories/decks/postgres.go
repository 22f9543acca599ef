package decks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bcheng02/flash-cards/internal/common"
	"github.com/bcheng02/flash-cards/internal/dbx"
	"github.com/bcheng02/flash-cards/internal/server/models"
)

const deckColumns = `id, user_id, parent_id, name, created_at, updated_at`

// subtreeCTE walks a deck and its descendants starting at $1.
const subtreeCTE = `WITH RECURSIVE subtree AS (
			SELECT id FROM decks WHERE id = $1
			UNION ALL
			SELECT d.id FROM decks d JOIN subtree s ON d.parent_id = s.id
		 )`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDeck(row scanner) (*models.Deck, error) {
	d := &models.Deck{}
	if err := row.Scan(&d.ID, &d.UserID, &d.ParentID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *PostgresRepository) Create(ctx context.Context, deck *models.Deck) (*models.Deck, error) {
	query :=
		`INSERT INTO decks (user_id, parent_id, name)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, deck.UserID, deck.ParentID, deck.Name).
		Scan(&deck.ID, &deck.CreatedAt, &deck.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return deck, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE id = $1`

	d, err := scanDeck(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Deck{}
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, deck *models.Deck) (*models.Deck, error) {
	query :=
		`UPDATE decks SET name = $2, parent_id = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + deckColumns

	d, err := scanDeck(r.db.QueryRowContext(ctx, query, deck.ID, deck.Name, deck.ParentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Owner(ctx context.Context, id int64) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM decks WHERE id = $1`, id).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return userID, nil
}

func (r *PostgresRepository) CountCards(ctx context.Context, id int64) (int64, error) {
	query := subtreeCTE + `
		 SELECT COUNT(f.id) FROM flashcards f JOIN subtree s ON f.deck_id = s.id`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) InSubtree(ctx context.Context, rootID, candidateID int64) (bool, error) {
	query := subtreeCTE + `
		 SELECT EXISTS (SELECT 1 FROM subtree WHERE id = $2)`

	var found bool
	if err := r.db.QueryRowContext(ctx, query, rootID, candidateID).Scan(&found); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return found, nil
}
