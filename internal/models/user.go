package models

import "github.com/google/uuid"

// Credentials is the email/password pair used for sign-up and login.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=30"`
}

// Session is what a successful sign-in or refresh hands back to the
// handlers; the tokens end up in cookies.
type Session struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresIn    int       `json:"expires_in"`
}
