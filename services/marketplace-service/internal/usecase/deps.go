package usecase

import (
	"context"
	"strings"

	"github.com/vasapolrittideah/propify-api/shared/provider"
)

// Notifier delivers one-time codes out of band.
type Notifier interface {
	SendSimple(to []string, subject, body string) error
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// GoogleIdentityVerifier confirms that a Google ID token belongs to an email.
type GoogleIdentityVerifier interface {
	VerifyIdentity(ctx context.Context, idToken, email string) (*provider.GoogleIdentity, error)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
