package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/supabase-community/gotrue-go/types"
)

type AuthRepo interface {
	SignUp(ctx context.Context, creds Credentials) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

func sessionFromToken(res *types.TokenResponse) *Session {
	return &Session{
		UserID:       res.User.ID,
		Email:        res.User.Email,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresIn:    res.ExpiresIn,
	}
}

func (su *SupabaseRepo) SignUp(ctx context.Context, creds Credentials) (*Session, error) {
	req := types.SignupRequest{
		Email:    creds.Email,
		Password: creds.Password,
	}
	if creds.Username != "" {
		req.Data = map[string]interface{}{"username": creds.Username}
	}

	res, err := su.supabaseClient.Auth.Signup(req)
	if err != nil {
		return nil, signupError(err)
	}

	// With email confirmation on, gotrue returns the user without a session.
	session := &Session{UserID: res.ID, Email: res.Email}
	if res.Session.AccessToken != "" {
		session.AccessToken = res.Session.AccessToken
		session.RefreshToken = res.Session.RefreshToken
		session.ExpiresIn = res.Session.ExpiresIn
	}
	return session, nil
}

func signupError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "already registered"):
		return fmt.Errorf("email already in use")
	case strings.Contains(msg, "unique constraint"):
		return fmt.Errorf("user already exists")
	case strings.Contains(msg, "password"):
		return fmt.Errorf("password does not meet requirements")
	default:
		return fmt.Errorf("failed to create user")
	}
}

func (su *SupabaseRepo) SignIn(ctx context.Context, email, password string) (*Session, error) {
	res, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %v", err)
	}
	return sessionFromToken(res), nil
}

func (su *SupabaseRepo) RefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	res, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %v", err)
	}
	return sessionFromToken(res), nil
}

func (su *SupabaseRepo) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := su.supabaseClient.Auth.WithToken(accessToken).Logout(); err != nil {
		return fmt.Errorf("failed to sign out: %v", err)
	}
	return nil
}
