package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/wanderlust/internal/helpers"
	"github.com/joshua-takyi/wanderlust/internal/models"
)

const (
	UserKey = "user"

	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	refreshTokenMaxAge = 3600 * 24 * 30
)

var errNoToken = errors.New("JWT token not found in cookie")

// TokenVerifier checks an access token and returns its claims.
type TokenVerifier interface {
	Validate(token string) (*helpers.CustomClaims, error)
}

// SessionRefresher trades a refresh token for a new session.
type SessionRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*models.Session, error)
}

// SetAuthCookies stores the session tokens as http-only cookies.
func SetAuthCookies(c *gin.Context, session *models.Session, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, session.AccessToken, session.ExpiresIn, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, session.RefreshToken, refreshTokenMaxAge, "/", "", secure, true)
}

func ClearAuthCookies(c *gin.Context, secure bool) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secure, true)
}

// AccessToken reads the token from the cookie, falling back to a bearer
// Authorization header.
func AccessToken(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// CurrentUser returns the claims stored by AuthMiddleware or OptionalAuth.
func CurrentUser(c *gin.Context) (*helpers.EnhancedClaims, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*helpers.EnhancedClaims)
	return claims, ok
}

type authenticator struct {
	tokens  TokenVerifier
	refresh SessionRefresher
	logger  *slog.Logger
	secure  bool
}

// authenticate validates the access token. An invalid or expired token is
// replaced through the refresh token cookie when one is present, and the
// new tokens are written back as cookies.
func (a *authenticator) authenticate(c *gin.Context) (*helpers.EnhancedClaims, error) {
	token := AccessToken(c)

	var claims *helpers.CustomClaims
	err := errNoToken
	if token != "" {
		claims, err = a.tokens.Validate(token)
	}

	if err != nil {
		refreshToken, refreshErr := c.Cookie(RefreshTokenCookie)
		if refreshErr != nil || refreshToken == "" {
			return nil, err
		}

		session, refreshErr := a.refresh.RefreshToken(c.Request.Context(), refreshToken)
		if refreshErr != nil {
			a.logger.Error("Token refresh failed", "error", refreshErr)
			return nil, errors.New("token expired and refresh failed")
		}
		if session.AccessToken == "" {
			return nil, errors.New("invalid refresh response")
		}

		a.logger.Info("Token refreshed successfully",
			"user_id", session.UserID,
			"expires_in", session.ExpiresIn,
		)
		SetAuthCookies(c, session, a.secure)

		claims, err = a.tokens.Validate(session.AccessToken)
		if err != nil {
			return nil, errors.New("refreshed token validation failed")
		}
	}

	enhanced, err := helpers.NewEnhancedClaims(claims)
	if err != nil {
		a.logger.Error("Invalid user ID in token", "user_id", claims.Subject, "error", err)
		return nil, errors.New("invalid user ID in token")
	}
	return enhanced, nil
}

// AuthMiddleware rejects requests without a valid session.
func AuthMiddleware(tokens TokenVerifier, refresh SessionRefresher, logger *slog.Logger, secure bool) gin.HandlerFunc {
	a := &authenticator{tokens: tokens, refresh: refresh, logger: logger, secure: secure}
	return func(c *gin.Context) {
		claims, err := a.authenticate(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ApiResponse{
				Message: "Unauthorized access",
				Error:   err.Error(),
			})
			return
		}
		c.Set(UserKey, claims)
		c.Next()
	}
}

// OptionalAuth attaches the user when the request carries a valid session
// and lets anonymous requests through untouched.
func OptionalAuth(tokens TokenVerifier, refresh SessionRefresher, logger *slog.Logger, secure bool) gin.HandlerFunc {
	a := &authenticator{tokens: tokens, refresh: refresh, logger: logger, secure: secure}
	return func(c *gin.Context) {
		if AccessToken(c) == "" {
			if _, err := c.Cookie(RefreshTokenCookie); err != nil {
				c.Next()
				return
			}
		}
		if claims, err := a.authenticate(c); err == nil {
			c.Set(UserKey, claims)
		} else {
			logger.Debug("ignoring invalid session", "error", err)
		}
		c.Next()
	}
}
