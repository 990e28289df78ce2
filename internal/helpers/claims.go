package helpers

import (
	"slices"

	"github.com/google/uuid"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// EnhancedClaims is the request-scoped view of an authenticated user.
type EnhancedClaims struct {
	*CustomClaims
	Role   string    `json:"role"`
	UserID uuid.UUID `json:"id"`
	Email  string    `json:"email,omitempty"`
}

// NewEnhancedClaims reads the subject as the user id. The app role comes
// from app_metadata.roles; the top-level "role" claim is the database role
// ("authenticated") and is ignored.
func NewEnhancedClaims(c *CustomClaims) (*EnhancedClaims, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, err
	}

	role := RoleUser
	if slices.Contains(c.AppMetadata.Roles, RoleAdmin) {
		role = RoleAdmin
	}

	return &EnhancedClaims{
		CustomClaims: c,
		Role:         role,
		UserID:       id,
		Email:        c.Email,
	}, nil
}

func (ec *EnhancedClaims) IsAdmin() bool {
	return ec.Role == RoleAdmin
}

func (ec *EnhancedClaims) IsOwner(userID uuid.UUID) bool {
	return ec.UserID == userID
}

// CanModify reports whether the user owns the resource or is an admin.
func (ec *EnhancedClaims) CanModify(ownerID uuid.UUID) bool {
	return ec.IsOwner(ownerID) || ec.IsAdmin()
}
