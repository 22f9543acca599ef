// Package decks declares the repository contract for the per-user deck tree.
package decks

import (
	"context"

	"github.com/bcheng02/flash-cards/internal/server/models"
)

// Repository persists decks. Lookups by id return common.ErrorNotFound when
// the row does not exist; ownership is decided by the caller through Owner.
type Repository interface {
	Create(ctx context.Context, deck *models.Deck) (*models.Deck, error)
	GetByID(ctx context.Context, id int64) (*models.Deck, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Deck, error)
	Update(ctx context.Context, deck *models.Deck) (*models.Deck, error)
	Delete(ctx context.Context, id int64) error

	// Owner returns the user id owning the deck.
	Owner(ctx context.Context, id int64) (int64, error)

	// CountCards counts flashcards in the deck and every deck below it.
	CountCards(ctx context.Context, id int64) (int64, error)

	// InSubtree reports whether candidateID is rootID or one of its descendants.
	InSubtree(ctx context.Context, rootID, candidateID int64) (bool, error)
}
