// Package server wires configuration, storage, token handling and the
// services into the HTTP API and the gRPC health endpoint, and runs both
// until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bcheng02/flash-cards/internal/logging"
	"github.com/bcheng02/flash-cards/internal/server/auth"
	"github.com/bcheng02/flash-cards/internal/server/config"
	"github.com/bcheng02/flash-cards/internal/server/httpapi"
	"github.com/bcheng02/flash-cards/internal/server/repositories/repomanager"
	"github.com/bcheng02/flash-cards/internal/server/repositories/revocations"
	"github.com/bcheng02/flash-cards/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	gs "github.com/bcheng02/flash-cards/internal/server/grpc"
)

// purgeInterval is how often expired rows are dropped from revoked_tokens.
const purgeInterval = time.Hour

type App struct {
	config           *config.Config
	logger           logging.Logger
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	tokens           *auth.Manager
	revocations      revocations.Repository
	closers          []io.Closer
	userService      *services.UserService
	deckService      *services.DeckService
	flashcardService *services.FlashcardService
}

func NewApp(c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewForEnv(c.Env, os.Stdout)
	if c.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens, err := auth.NewManager([]byte(c.SecretKey), c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("token manager init error: %w", err)
	}

	app := &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: repomanager.NewPostgresRepositoryManager(),
		tokens:      tokens,
	}
	app.revocations = app.newRevocationStore()

	app.userService = services.NewUserService(db, app.repomanager, tokens, app.revocations, logger)
	app.deckService = services.NewDeckService(db, app.repomanager, logger)
	app.flashcardService = services.NewFlashcardService(db, app.repomanager, logger)

	return app, nil
}

// newRevocationStore picks the refresh token denylist named in config.
func (app *App) newRevocationStore() revocations.Repository {
	switch app.config.RevocationStore {
	case config.RevocationPostgres:
		return app.repomanager.Revocations(app.db)
	case config.RevocationRedis:
		client := redis.NewClient(&redis.Options{Addr: app.config.RedisAddr})
		app.closers = append(app.closers, client)
		return revocations.NewRedisRepository(client)
	default:
		return revocations.Nop{}
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(httpapi.Options{
		Address:      app.config.EndpointAddrHTTP,
		CORSOrigin:   app.config.CORSOrigin,
		CookieSecure: app.config.CookieSecure,
		RefreshTTL:   app.config.RefreshTokenValidityDuration,
	}, app.logger, app.userService, app.deckService, app.flashcardService, app.tokens, app.db)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// purgeRevocations periodically removes denylist entries whose tokens have
// expired anyway.
func (app *App) purgeRevocations(ctx context.Context, p revocations.Purger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := p.PurgeExpired(ctx, now)
			if err != nil {
				app.logger.Warn(ctx, "failed to purge revoked tokens", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Debug(ctx, "purged revoked tokens", "count", n)
			}
		}
	}
}

func (app *App) close() {
	for _, c := range app.closers {
		_ = c.Close()
	}
	_ = app.db.Close()
}

// Run migrates the schema and serves until ctx is cancelled or the process
// receives SIGINT, SIGTERM or SIGQUIT.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Env, "revocation_store", app.config.RevocationStore)

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	var wg sync.WaitGroup

	if p, ok := app.revocations.(revocations.Purger); ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.purgeRevocations(ctx, p)
		}()
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return nil
}
