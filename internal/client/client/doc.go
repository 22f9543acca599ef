// Package client talks to the flashcards HTTP API.
//
// # Overview
//
// The package provides:
//  1. An API contract (see the Client interface): Register, Login, Logout,
//     Me and the deck and flashcard calls used by the CLI.
//  2. An HTTP implementation (see HTTPClient) that keeps the access token in
//     memory, attaches it to every authenticated request, and keeps the
//     refresh token in a cookie jar so it is only ever sent to /auth.
//
// # Session renewal
//
// When an authenticated call is rejected with 401, or with 403 carrying
// WWW-Authenticate: Bearer error="invalid_token", HTTPClient calls
// /auth/refresh once and replays the call once with the new token. If the
// refresh fails the session is dropped and the original error is returned.
// Concurrent rejections share a single refresh call. A 403 without that
// challenge is an ownership failure and is returned as is.
//
// # Error Handling
//
// Responses other than 2xx become *APIError, which unwraps to one of the
// sentinel errors (ErrUnauthorized, ErrForbidden, ErrBadRequest, ErrNotFound,
// ErrUnavailable) so callers can use errors.Is. Transport failures wrap
// ErrUnavailable.
package client
