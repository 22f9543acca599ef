// Package revocations records refresh tokens that were rotated or logged out
// so they cannot be presented again before they expire.
//
// Three implementations exist: Postgres (revoked_tokens table), Redis (one
// key per jti that expires with the token) and Nop, which keeps nothing and
// preserves the stateless behaviour where an old refresh token stays usable
// until its exp.
package revocations

import (
	"context"
	"time"

	"github.com/bcheng02/flash-cards/internal/server/models"
)

type Repository interface {
	// Revoke marks token.ID as unusable until token.ExpiresAt. The check and
	// the write are one atomic step: it returns true only for the call that
	// recorded the id, and false if it was already revoked.
	Revoke(ctx context.Context, token models.RevokedToken) (bool, error)

	// IsRevoked reports whether the jti was revoked and has not expired yet.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Nop never records anything, so every Revoke call wins.
type Nop struct{}

func (Nop) Revoke(context.Context, models.RevokedToken) (bool, error) { return true, nil }

func (Nop) IsRevoked(context.Context, string) (bool, error) { return false, nil }

// Purger is implemented by stores that keep expired entries until they are
// removed explicitly. Redis expires keys on its own and does not need it.
type Purger interface {
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}
