package usecase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/model"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/pkg/types"
	"github.com/vasapolrittideah/propify-api/shared/auth"
)

// SessionToken is a signed session credential and its lifetime.
type SessionToken struct {
	Token     string
	ExpiresAt time.Time
	TTL       time.Duration
}

// SessionTokenIssuer issues and verifies session tokens.
type SessionTokenIssuer struct {
	jwtAuth *auth.JWTAuthenticator
	ttl     time.Duration
	now     func() time.Time
}

// NewSessionTokenIssuer creates an issuer producing tokens valid for ttl.
func NewSessionTokenIssuer(jwtAuth *auth.JWTAuthenticator, ttl time.Duration) *SessionTokenIssuer {
	return &SessionTokenIssuer{
		jwtAuth: jwtAuth,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Issue signs a token carrying the user's id and role.
func (i *SessionTokenIssuer) Issue(user *model.User) (*SessionToken, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	userID := user.ID.Hex()

	claims := types.SessionClaims{
		UserID: userID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    i.jwtAuth.Issuer(),
			Audience:  jwt.ClaimStrings{i.jwtAuth.Audience()},
		},
	}

	token, err := i.jwtAuth.GenerateToken(claims)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return &SessionToken{
		Token:     token,
		ExpiresAt: expiresAt,
		TTL:       i.ttl,
	}, nil
}

// Verify parses a presented token. Every failure is ErrUnauthorized.
func (i *SessionTokenIssuer) Verify(token string) (*types.SessionClaims, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	var claims types.SessionClaims
	if _, err := i.jwtAuth.ValidateTokenWithClaims(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	if !model.Role(claims.Role).Valid() {
		return nil, ErrUnauthorized
	}

	return &claims, nil
}
