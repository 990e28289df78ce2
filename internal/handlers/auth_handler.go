package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/wanderlust/internal/middleware"
	"github.com/joshua-takyi/wanderlust/internal/models"
	"github.com/joshua-takyi/wanderlust/internal/services"
)

// SignUp creates the account. When the project requires email
// confirmation there is no session yet and no cookies are set.
func SignUp(as *services.AuthService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var creds models.Credentials
		if !bindJSON(c, &creds) {
			return
		}

		session, err := as.SignUp(c.Request.Context(), creds)
		if err != nil {
			var verr *services.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusBadRequest, models.ValidationResponse(verr.Messages))
				return
			}
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		if session.AccessToken != "" {
			middleware.SetAuthCookies(c, session, secureCookies)
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(session, "Account created"))
	}
}

func Login(as *services.AuthService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if !bindJSON(c, &req) {
			return
		}

		session, err := as.SignIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ApiResponse{
				Message: "invalid email or password",
				Error:   err.Error(),
			})
			return
		}

		middleware.SetAuthCookies(c, session, secureCookies)
		c.JSON(http.StatusOK, models.SuccessResponse(session, "Welcome back"))
	}
}

// Refresh trades the refresh token cookie for a new pair of cookies.
func Refresh(as *services.AuthService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		refreshToken, err := c.Cookie(middleware.RefreshTokenCookie)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse("refresh token not found in cookie"))
			return
		}

		session, err := as.RefreshToken(c.Request.Context(), refreshToken)
		if err != nil {
			middleware.ClearAuthCookies(c, secureCookies)
			c.JSON(http.StatusUnauthorized, models.ErrorResponse(err.Error()))
			return
		}

		middleware.SetAuthCookies(c, session, secureCookies)
		c.JSON(http.StatusOK, models.SuccessResponse(session, ""))
	}
}

// Logout revokes the session upstream when possible and always clears the
// cookies.
func Logout(as *services.AuthService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := middleware.AccessToken(c); token != "" {
			if err := as.SignOut(c.Request.Context(), token); err != nil {
				_ = c.Error(err)
			}
		}

		middleware.ClearAuthCookies(c, secureCookies)
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Logged out successfully"))
	}
}

func Profile() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"user_id":  claims.UserID,
			"email":    claims.Email,
			"role":     claims.Role,
			"is_admin": claims.IsAdmin(),
		})
	}
}
