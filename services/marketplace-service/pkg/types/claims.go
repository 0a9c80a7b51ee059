package types

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Validate rejects tokens missing the identity fields. It is called by the jwt parser.
func (c SessionClaims) Validate() error {
	if c.UserID == "" || c.Role == "" {
		return errors.New("session claims missing user_id or role")
	}
	return nil
}
