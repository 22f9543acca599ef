// Package services contains server-side business logic. This file implements
// UserService: registration, credential checks, and the login/refresh/logout
// token lifecycle.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bcheng02/flash-cards/internal/common"
	"github.com/bcheng02/flash-cards/internal/logging"
	"github.com/bcheng02/flash-cards/internal/server/auth"
	"github.com/bcheng02/flash-cards/internal/server/models"
	"github.com/bcheng02/flash-cards/internal/server/repositories/repomanager"
	"github.com/bcheng02/flash-cards/internal/server/repositories/revocations"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username is unknown so that both
// login failures cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("flash-cards/no-such-user"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
})

// UserService provides authentication-related operations:
//   - Register / VerifyCredentials: the credential store
//   - Login: verify credentials and mint a token pair
//   - Refresh: exchange a refresh token for a rotated pair
//   - Logout: revoke the presented refresh token when revocation is enabled
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.Manager
	revocations revocations.Repository
	hashCost    int
	logger      logging.Logger
}

// NewUserService wires the service. A nil revocation repository disables
// revocation.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.Manager,
	revoked revocations.Repository, logger logging.Logger) *UserService {
	if revoked == nil {
		revoked = revocations.Nop{}
	}
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		revocations: revoked,
		hashCost:    bcrypt.DefaultCost,
		logger:      logger.With("module", "services.UserService"),
	}
}

// Register creates a user with a bcrypt hash of password. Usernames are
// compared exactly as given.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	const op = "services.UserService.Register"
	log := s.logger.With("op", op, "username", username)

	if strings.TrimSpace(username) == "" || password == "" {
		return nil, common.ErrorMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password must be at most 72 bytes", common.ErrorValidation)
		}
		log.Error(ctx, "failed to hash password", "error", err)
		return nil, common.ErrorInternal
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{Username: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateUsername) {
			log.Warn(ctx, "username already taken")
			return nil, common.ErrorDuplicateUsername
		}
		log.Error(ctx, "failed to save user", "error", err)
		return nil, common.ErrorInternal
	}

	log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// VerifyCredentials returns the user when password matches. Unknown users and
// wrong passwords both yield common.ErrorInvalidCredentials.
func (s *UserService) VerifyCredentials(ctx context.Context, username, password string) (*models.User, error) {
	const op = "services.UserService.VerifyCredentials"

	user, err := s.repomanager.Users(s.db).GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "failed to load user", "op", op, "error", err)
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorInvalidCredentials
	}
	return user, nil
}

// Login verifies credentials and mints a new token pair.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, *auth.TokenPair, error) {
	const op = "services.UserService.Login"
	log := s.logger.With("op", op)

	user, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			log.Info(ctx, "login rejected")
		}
		return nil, nil, err
	}

	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		log.Error(ctx, "failed to issue tokens", "error", err)
		return nil, nil, common.ErrorInternal
	}

	log.Info(ctx, "user logged in", "user_id", user.ID)
	return user, pair, nil
}

// Refresh validates a refresh token and returns a rotated pair for the same
// user. With revocation enabled the consumed token is revoked; otherwise it
// stays usable until it expires.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	const op = "services.UserService.Refresh"
	log := s.logger.With("op", op)

	if refreshToken == "" {
		return nil, common.ErrorNoToken
	}

	claims, err := s.tokens.ParseToken(refreshToken, auth.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrorInvalidToken, err)
		}
		return nil, common.ErrorInvalidToken
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		log.Error(ctx, "failed to check revocation", "error", err)
		return nil, common.ErrorInternal
	}
	if revoked {
		log.Warn(ctx, "revoked refresh token presented", "user_id", claims.UserID)
		return nil, fmt.Errorf("%w: %w", common.ErrorInvalidToken, common.ErrTokenRevoked)
	}

	// Only the request that records the jti may rotate; a concurrent replay
	// of the same token loses the claim.
	claimed, err := s.revoke(ctx, claims)
	if err != nil {
		log.Error(ctx, "failed to revoke consumed refresh token", "error", err)
		return nil, common.ErrorInternal
	}
	if !claimed {
		log.Warn(ctx, "refresh token reused concurrently", "user_id", claims.UserID)
		return nil, fmt.Errorf("%w: %w", common.ErrorInvalidToken, common.ErrTokenRevoked)
	}

	pair, err := s.tokens.Issue(claims.UserID)
	if err != nil {
		log.Error(ctx, "failed to issue tokens", "error", err)
		return nil, common.ErrorInternal
	}

	log.Debug(ctx, "tokens rotated", "user_id", claims.UserID)
	return pair, nil
}

// Logout revokes refreshToken when it is valid and revocation is enabled.
// A missing or unparsable token is not an error: there is nothing to revoke.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	const op = "services.UserService.Logout"

	if refreshToken == "" {
		return nil
	}
	claims, err := s.tokens.ParseToken(refreshToken, auth.RefreshToken)
	if err != nil {
		return nil
	}
	if _, err := s.revoke(ctx, claims); err != nil {
		s.logger.Error(ctx, "failed to revoke refresh token", "op", op, "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "user logged out", "op", op, "user_id", claims.UserID)
	return nil
}

// Me returns the user behind an authenticated request.
func (s *UserService) Me(ctx context.Context, userID int64) (*models.User, error) {
	const op = "services.UserService.Me"

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "failed to load user", "op", op, "error", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}

func (s *UserService) revoke(ctx context.Context, claims *auth.Claims) (bool, error) {
	return s.revocations.Revoke(ctx, models.RevokedToken{
		ID:        claims.ID,
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}
