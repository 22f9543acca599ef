// Package auth issues and verifies the signed tokens used for sessions.
//
// Both access and refresh tokens are HS256 JWTs carrying the user id, a token
// type, a unique id (jti) and an expiry. Nothing is persisted: a token is
// valid when its signature checks out, it has not expired, and its type
// matches what the caller expects.
package auth

import (
	"errors"
	"time"

	"github.com/bcheng02/flash-cards/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims is the JWT payload: the registered claims plus user id and token type.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64     `json:"uid"`
	Type   TokenType `json:"typ"`
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Manager mints and verifies tokens with a single HMAC secret.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	newID      func() string
}

type Option func(*Manager)

// WithClock replaces time.Now, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(secret []byte, accessTTL, refreshTTL time.Duration, opts ...Option) (*Manager, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty signing secret")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}

	m := &Manager{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue mints a fresh access/refresh pair for userID.
func (m *Manager) Issue(userID int64) (*TokenPair, error) {
	access, _, err := m.GenerateToken(userID, AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, claims, err := m.GenerateToken(userID, RefreshToken)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		RefreshExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// GenerateToken signs a token of the given type for userID.
func (m *Manager) GenerateToken(userID int64, typ TokenType) (string, *Claims, error) {
	ttl := m.accessTTL
	if typ == RefreshToken {
		ttl = m.refreshTTL
	}

	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        m.newID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Type:   typ,
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return tokenString, claims, nil
}

// ParseToken verifies signature, expiry and type. Expired tokens yield
// common.ErrTokenExpired; every other failure yields common.ErrorInvalidToken.
func (m *Manager) ParseToken(tokenString string, typ TokenType) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrorInvalidToken
	}

	if !token.Valid || claims.Type != typ || claims.UserID <= 0 {
		return nil, common.ErrorInvalidToken
	}

	return claims, nil
}

// GetUserIDFromToken verifies an access token and returns its user id.
func (m *Manager) GetUserIDFromToken(tokenString string) (int64, error) {
	claims, err := m.ParseToken(tokenString, AccessToken)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
