package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshua-takyi/wanderlust/internal/helpers"
	"github.com/joshua-takyi/wanderlust/internal/models"
)

type AuthService struct {
	authRepo models.AuthRepo
}

func NewAuthService(authRepo models.AuthRepo) *AuthService {
	return &AuthService{authRepo: authRepo}
}

func (as *AuthService) SignUp(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if err := validate(creds); err != nil {
		return nil, err
	}
	if !helpers.IsPasswordStrong(creds.Password) {
		return nil, invalid("password must contain upper and lower case letters, a number and a special character")
	}
	return as.authRepo.SignUp(ctx, creds)
}

func (as *AuthService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, invalid("email must be a valid email")
	}
	if err := models.Validate.Var(password, "required,min=8"); err != nil {
		return nil, invalid("password must be at least 8 characters")
	}

	session, err := as.authRepo.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %v", err)
	}
	return session, nil
}

func (as *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	session, err := as.authRepo.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %v", err)
	}
	return session, nil
}

func (as *AuthService) SignOut(ctx context.Context, accessToken string) error {
	return as.authRepo.SignOut(ctx, accessToken)
}
