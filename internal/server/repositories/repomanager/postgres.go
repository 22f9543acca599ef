// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/bcheng02/flash-cards/internal/dbx"
	"github.com/bcheng02/flash-cards/internal/server/migrations"
	"github.com/bcheng02/flash-cards/internal/server/repositories/decks"
	"github.com/bcheng02/flash-cards/internal/server/repositories/flashcards"
	"github.com/bcheng02/flash-cards/internal/server/repositories/revocations"
	"github.com/bcheng02/flash-cards/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Decks returns a decks.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Decks(db dbx.DBTX) decks.Repository {
	return decks.NewPostgresRepository(db)
}

// Flashcards returns a flashcards.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Flashcards(db dbx.DBTX) flashcards.Repository {
	return flashcards.NewPostgresRepository(db)
}

// Revocations returns the table-backed revocation list bound to the provided DBTX.
func (m *PostgresRepositoryManager) Revocations(db dbx.DBTX) revocations.Repository {
	return revocations.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
