package flashcards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bcheng02/flash-cards/internal/common"
	"github.com/bcheng02/flash-cards/internal/dbx"
	"github.com/bcheng02/flash-cards/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, card *models.Flashcard) (*models.Flashcard, error) {
	query :=
		`INSERT INTO flashcards (deck_id, front, back)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, card.DeckID, card.Front, card.Back).Scan(&card.ID, &card.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return card, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Flashcard, error) {
	query :=
		`SELECT id, deck_id, front, back, created_at FROM flashcards
		 WHERE id = $1
		 `

	c := &models.Flashcard{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Flashcard, error) {
	query :=
		`SELECT id, deck_id, front, back, created_at FROM flashcards
		 WHERE deck_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Flashcard{}
	for rows.Next() {
		var c models.Flashcard
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, card *models.Flashcard) (*models.Flashcard, error) {
	query :=
		`UPDATE flashcards SET front = $2, back = $3
		 WHERE id = $1
		 RETURNING deck_id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, card.ID, card.Front, card.Back).Scan(&card.DeckID, &card.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return card, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = $1`, id)
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
	query :=
		`SELECT d.user_id FROM flashcards f
		 JOIN decks d ON d.id = f.deck_id
		 WHERE f.id = $1
		 `

	var userID int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return userID, nil
}
