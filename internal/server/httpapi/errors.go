package httpapi

import (
	"errors"
	"net/http"

	"github.com/bcheng02/flash-cards/internal/common"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps a service error to its HTTP status and client-facing message.
// Unknown errors become 500 with a generic message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorMissingCredentials),
		errors.Is(err, common.ErrorDuplicateUsername),
		errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusUnauthorized, common.ErrorInvalidCredentials.Error()
	case errors.Is(err, common.ErrorNoToken):
		return http.StatusUnauthorized, common.ErrorNoToken.Error()
	case errors.Is(err, common.ErrorUnauthenticated):
		return http.StatusUnauthorized, common.ErrorUnauthenticated.Error()
	case errors.Is(err, common.ErrorInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenRevoked):
		return http.StatusForbidden, common.ErrorInvalidToken.Error()
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, common.ErrorForbidden.Error()
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, common.ErrorNotFound.Error()
	default:
		return http.StatusInternalServerError, common.ErrorInternal.Error()
	}
}

func isTokenError(err error) bool {
	return errors.Is(err, common.ErrorInvalidToken) ||
		errors.Is(err, common.ErrTokenExpired) ||
		errors.Is(err, common.ErrTokenRevoked)
}

func abortWithError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	switch {
	case isTokenError(err):
		c.Header(common.WWWAuthenticateHeaderName, common.InvalidTokenChallenge)
	case status == http.StatusUnauthorized && errors.Is(err, common.ErrorUnauthenticated):
		c.Header(common.WWWAuthenticateHeaderName, "Bearer")
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}
