// Package flashcards declares the repository contract for cards stored in decks.
package flashcards

import (
	"context"

	"github.com/bcheng02/flash-cards/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, card *models.Flashcard) (*models.Flashcard, error)
	GetByID(ctx context.Context, id int64) (*models.Flashcard, error)
	ListByDeck(ctx context.Context, deckID int64) ([]models.Flashcard, error)
	Update(ctx context.Context, card *models.Flashcard) (*models.Flashcard, error)
	Delete(ctx context.Context, id int64) error

	// Owner returns the user id owning the deck the card belongs to.
	Owner(ctx context.Context, id int64) (int64, error)
}
