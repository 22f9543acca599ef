package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/bcheng02/flash-cards/internal/common"
	"github.com/bcheng02/flash-cards/internal/logging"
	"github.com/bcheng02/flash-cards/internal/server/models"
	"github.com/bcheng02/flash-cards/internal/server/repositories/repomanager"
)

// FlashcardService manages cards. Ownership is inherited from the deck.
type FlashcardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewFlashcardService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *FlashcardService {
	return &FlashcardService{db: db, repomanager: m, logger: logger.With("module", "services.FlashcardService")}
}

func (s *FlashcardService) List(ctx context.Context, userID, deckID int64) ([]models.Flashcard, error) {
	const op = "services.FlashcardService.List"

	if err := authorize(ctx, s.repomanager.Decks(s.db).Owner, userID, deckID); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	cards, err := s.repomanager.Flashcards(s.db).ListByDeck(ctx, deckID)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return cards, nil
}

func (s *FlashcardService) Create(ctx context.Context, userID, deckID int64, front, back string) (*models.Flashcard, error) {
	const op = "services.FlashcardService.Create"

	if err := validateSides(front, back); err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.repomanager.Decks(s.db).Owner, userID, deckID); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	card, err := s.repomanager.Flashcards(s.db).Create(ctx, &models.Flashcard{DeckID: deckID, Front: front, Back: back})
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return card, nil
}

func (s *FlashcardService) Get(ctx context.Context, userID, id int64) (*models.Flashcard, error) {
	const op = "services.FlashcardService.Get"
	repo := s.repomanager.Flashcards(s.db)

	if err := authorize(ctx, repo.Owner, userID, id); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	card, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return card, nil
}

func (s *FlashcardService) Update(ctx context.Context, userID, id int64, front, back string) (*models.Flashcard, error) {
	const op = "services.FlashcardService.Update"
	repo := s.repomanager.Flashcards(s.db)

	if err := validateSides(front, back); err != nil {
		return nil, err
	}
	if err := authorize(ctx, repo.Owner, userID, id); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	card, err := repo.Update(ctx, &models.Flashcard{ID: id, Front: front, Back: back})
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return card, nil
}

func (s *FlashcardService) Delete(ctx context.Context, userID, id int64) error {
	const op = "services.FlashcardService.Delete"
	repo := s.repomanager.Flashcards(s.db)

	if err := authorize(ctx, repo.Owner, userID, id); err != nil {
		return s.fail(ctx, op, err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, op, err)
	}
	return nil
}

func validateSides(front, back string) error {
	if strings.TrimSpace(front) == "" || strings.TrimSpace(back) == "" {
		return fmt.Errorf("%w: front and back are required", common.ErrorValidation)
	}
	return nil
}

func (s *FlashcardService) fail(ctx context.Context, op string, err error) error {
	mapped := internalOr(err)
	if mapped == common.ErrorInternal {
		s.logger.Error(ctx, "flashcard operation failed", "op", op, "error", err)
	}
	return mapped
}
