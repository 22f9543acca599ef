// Package httpapi exposes the flashcards API over HTTP using gin: the auth
// routes, the bearer guard, deck and flashcard routes and a health check.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/bcheng02/flash-cards/internal/logging"
	"github.com/bcheng02/flash-cards/internal/server/auth"
	"github.com/bcheng02/flash-cards/internal/server/models"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, *auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID int64) (*models.User, error)
}

type DeckService interface {
	List(ctx context.Context, userID int64) ([]models.Deck, error)
	Get(ctx context.Context, userID, id int64) (*models.Deck, error)
	Summary(ctx context.Context, userID, id int64) (*models.DeckSummary, error)
	Create(ctx context.Context, userID int64, name string, parentID *int64) (*models.Deck, error)
	Update(ctx context.Context, userID, id int64, name string, parentID *int64) (*models.Deck, error)
	Delete(ctx context.Context, userID, id int64) error
}

type FlashcardService interface {
	List(ctx context.Context, userID, deckID int64) ([]models.Flashcard, error)
	Create(ctx context.Context, userID, deckID int64, front, back string) (*models.Flashcard, error)
	Get(ctx context.Context, userID, id int64) (*models.Flashcard, error)
	Update(ctx context.Context, userID, id int64, front, back string) (*models.Flashcard, error)
	Delete(ctx context.Context, userID, id int64) error
}

// TokenVerifier turns a bearer access token into a user id.
type TokenVerifier interface {
	GetUserIDFromToken(token string) (int64, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options carries the transport settings taken from server config.
type Options struct {
	Address      string
	CORSOrigin   string
	CookieSecure bool
	RefreshTTL   time.Duration
}

type HTTPServer struct {
	opts   Options
	users  UserService
	decks  DeckService
	cards  FlashcardService
	tokens TokenVerifier
	db     Pinger
	logger logging.Logger
	engine *gin.Engine
}

func NewHTTPServer(opts Options, l logging.Logger, us UserService, ds DeckService, fs FlashcardService,
	tv TokenVerifier, db Pinger) *HTTPServer {
	s := &HTTPServer{
		opts:   opts,
		users:  us,
		decks:  ds,
		cards:  fs,
		tokens: tv,
		db:     db,
		logger: l.With("module", "http_server"),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the router, for tests and for embedding.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger, s.cors)

	r.GET("/healthz", s.health)

	a := r.Group("/auth")
	a.POST("/register", s.register)
	a.POST("/login", s.login)
	a.POST("/refresh", s.refresh)
	a.POST("/logout", s.logout)

	p := r.Group("/", s.requireUser)
	p.GET("/me", s.me)

	p.GET("/decks", s.listDecks)
	p.POST("/decks", s.createDeck)
	p.GET("/decks/:id", s.getDeck)
	p.GET("/decks/:id/summary", s.deckSummary)
	p.PUT("/decks/:id", s.updateDeck)
	p.DELETE("/decks/:id", s.deleteDeck)

	p.GET("/decks/:id/flashcards", s.listFlashcards)
	p.POST("/decks/:id/flashcards", s.createFlashcard)
	p.GET("/flashcards/:id", s.getFlashcard)
	p.PUT("/flashcards/:id", s.updateFlashcard)
	p.DELETE("/flashcards/:id", s.deleteFlashcard)

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
