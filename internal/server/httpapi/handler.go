package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/bcheng02/flash-cards/internal/common"
	"github.com/bcheng02/flash-cards/internal/server/models"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username}
}

func (s *HTTPServer) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, common.ErrorMissingCredentials)
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user)})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, common.ErrorInvalidCredentials)
		return
	}

	user, pair, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	s.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken, "user": toUserResponse(user)})
}

// refresh reads the refresh token from the cookie only.
func (s *HTTPServer) refresh(c *gin.Context) {
	token, _ := c.Cookie(common.RefreshTokenCookieName)

	pair, err := s.users.Refresh(c.Request.Context(), token)
	if err != nil {
		abortWithError(c, err)
		return
	}

	s.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken})
}

// logout always succeeds for the client; a revocation failure is only logged.
func (s *HTTPServer) logout(c *gin.Context) {
	token, _ := c.Cookie(common.RefreshTokenCookieName)

	if err := s.users.Logout(c.Request.Context(), token); err != nil {
		s.logger.Warn(c.Request.Context(), "logout could not revoke refresh token", "error", err)
	}

	s.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) me(c *gin.Context) {
	user, err := s.users.Me(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *HTTPServer) health(c *gin.Context) {
	if err := s.db.PingContext(c.Request.Context()); err != nil {
		s.logger.Error(c.Request.Context(), "health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(common.RefreshTokenCookieName, token, int(s.opts.RefreshTTL.Seconds()),
		common.RefreshTokenCookiePath, "", s.opts.CookieSecure, true)
}

func (s *HTTPServer) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(common.RefreshTokenCookieName, "", -1,
		common.RefreshTokenCookiePath, "", s.opts.CookieSecure, true)
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", common.ErrorValidation, c.Param("id"))
	}
	return id, nil
}

// bindJSON decodes the body, reporting malformed input as a validation error.
func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrorValidation)
	}
	return nil
}
