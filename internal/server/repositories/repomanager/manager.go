package repomanager

import (
	"context"
	"database/sql"

	"github.com/bcheng02/flash-cards/internal/dbx"
	"github.com/bcheng02/flash-cards/internal/server/repositories/decks"
	"github.com/bcheng02/flash-cards/internal/server/repositories/flashcards"
	"github.com/bcheng02/flash-cards/internal/server/repositories/revocations"
	"github.com/bcheng02/flash-cards/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Decks(db dbx.DBTX) decks.Repository
	Flashcards(db dbx.DBTX) flashcards.Repository
	Revocations(db dbx.DBTX) revocations.Repository
}
