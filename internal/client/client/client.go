package client

import (
	"context"

	"github.com/bcheng02/flash-cards/internal/client/models"
)

// State is the client's view of its session.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

type Client interface {
	Init(ctx context.Context) (*models.User, error)
	State() State
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	ListDecks(ctx context.Context) ([]models.Deck, error)
	CreateDeck(ctx context.Context, name string, parentID *int64) (*models.Deck, error)
	UpdateDeck(ctx context.Context, id int64, name string, parentID *int64) (*models.Deck, error)
	DeleteDeck(ctx context.Context, id int64) error
	DeckSummary(ctx context.Context, id int64) (*models.DeckSummary, error)
	ListCards(ctx context.Context, deckID int64) ([]models.Flashcard, error)
	CreateCard(ctx context.Context, deckID int64, front, back string) (*models.Flashcard, error)
	UpdateCard(ctx context.Context, id int64, front, back string) (*models.Flashcard, error)
	DeleteCard(ctx context.Context, id int64) error
}
