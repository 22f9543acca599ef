package models

import "time"

// RevokedToken marks a refresh token (by its jti) as unusable until it would
// have expired anyway.
type RevokedToken struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
}
