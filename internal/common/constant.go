package common

const (
	// AuthorizationHeaderName carries the access token as "Bearer <token>".
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the access token in the Authorization header.
	BearerPrefix = "Bearer "

	// RefreshTokenCookieName is the httpOnly cookie holding the refresh token.
	RefreshTokenCookieName = "refreshToken"

	// RefreshTokenCookiePath scopes the refresh cookie to the auth routes.
	RefreshTokenCookiePath = "/auth"

	// WWWAuthenticateHeaderName and InvalidTokenChallenge mark a 403 caused by
	// a bad or expired access token, as opposed to an ownership failure.
	WWWAuthenticateHeaderName = "WWW-Authenticate"
	InvalidTokenChallenge     = `Bearer error="invalid_token"`
)
