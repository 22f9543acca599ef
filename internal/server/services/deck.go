package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/bcheng02/flash-cards/internal/common"
	"github.com/bcheng02/flash-cards/internal/dbx"
	"github.com/bcheng02/flash-cards/internal/logging"
	"github.com/bcheng02/flash-cards/internal/server/models"
	"github.com/bcheng02/flash-cards/internal/server/repositories/repomanager"
)

// DeckService manages a user's deck tree. Every operation on an existing
// deck first checks that the caller owns it.
type DeckService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewDeckService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *DeckService {
	return &DeckService{db: db, repomanager: m, logger: logger.With("module", "services.DeckService")}
}

func (s *DeckService) List(ctx context.Context, userID int64) ([]models.Deck, error) {
	decks, err := s.repomanager.Decks(s.db).ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to list decks", "op", "services.DeckService.List", "error", err)
		return nil, common.ErrorInternal
	}
	return decks, nil
}

func (s *DeckService) Get(ctx context.Context, userID, id int64) (*models.Deck, error) {
	const op = "services.DeckService.Get"
	repo := s.repomanager.Decks(s.db)

	if err := authorize(ctx, repo.Owner, userID, id); err != nil {
		return nil, s.fail(ctx, op, err)
	}
	deck, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return deck, nil
}

// Summary returns the deck with the number of cards in it and all of its
// sub-decks.
func (s *DeckService) Summary(ctx context.Context, userID, id int64) (*models.DeckSummary, error) {
	const op = "services.DeckService.Summary"
	repo := s.repomanager.Decks(s.db)

	deck, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	n, err := repo.CountCards(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return &models.DeckSummary{Deck: *deck, CardCount: n}, nil
}

// Create adds a deck, optionally under parentID which must belong to userID.
func (s *DeckService) Create(ctx context.Context, userID int64, name string, parentID *int64) (*models.Deck, error) {
	const op = "services.DeckService.Create"
	repo := s.repomanager.Decks(s.db)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if parentID != nil {
		if err := authorize(ctx, repo.Owner, userID, *parentID); err != nil {
			return nil, s.fail(ctx, op, err)
		}
	}

	deck, err := repo.Create(ctx, &models.Deck{UserID: userID, ParentID: parentID, Name: name})
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	s.logger.Info(ctx, "deck created", "op", op, "deck_id", deck.ID, "user_id", userID)
	return deck, nil
}

// Update renames and re-parents a deck. Moving a deck under itself or one of
// its descendants is a validation error. The checks and the write share one
// transaction.
func (s *DeckService) Update(ctx context.Context, userID, id int64, name string, parentID *int64) (*models.Deck, error) {
	const op = "services.DeckService.Update"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}

	var deck *models.Deck
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Decks(tx)

		if err := authorize(ctx, repo.Owner, userID, id); err != nil {
			return err
		}
		if parentID != nil {
			if err := authorize(ctx, repo.Owner, userID, *parentID); err != nil {
				return err
			}
			cycle, err := repo.InSubtree(ctx, id, *parentID)
			if err != nil {
				return err
			}
			if cycle {
				return fmt.Errorf("%w: a deck cannot be moved under itself or its descendants", common.ErrorValidation)
			}
		}

		var err error
		deck, err = repo.Update(ctx, &models.Deck{ID: id, UserID: userID, ParentID: parentID, Name: name})
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, op, err)
	}
	return deck, nil
}

// Delete removes a deck together with its sub-decks and cards.
func (s *DeckService) Delete(ctx context.Context, userID, id int64) error {
	const op = "services.DeckService.Delete"
	repo := s.repomanager.Decks(s.db)

	if err := authorize(ctx, repo.Owner, userID, id); err != nil {
		return s.fail(ctx, op, err)
	}
	if err := repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, op, err)
	}
	s.logger.Info(ctx, "deck deleted", "op", op, "deck_id", id, "user_id", userID)
	return nil
}

func (s *DeckService) fail(ctx context.Context, op string, err error) error {
	mapped := internalOr(err)
	if mapped == common.ErrorInternal {
		s.logger.Error(ctx, "deck operation failed", "op", op, "error", err)
	}
	return mapped
}
