package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/payload"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/pkg/types"
	"github.com/vasapolrittideah/propify-api/shared/utilities"
)

// UnauthorizedMessage is the only body the guard ever returns.
const UnauthorizedMessage = "Please login to access this resource"

type contextKey struct{}

var claimsKey = contextKey{}

// SessionVerifier validates a presented session token.
type SessionVerifier interface {
	Verify(token string) (*types.SessionClaims, error)
}

// Authenticate requires a valid session token from the cookie named cookieName,
// or from an Authorization bearer header when the cookie is absent.
func Authenticate(verifier SessionVerifier, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := hlog.FromRequest(r)

			claims, err := verifier.Verify(tokenFromRequest(r, cookieName))
			if err != nil {
				logger.Debug().Err(err).Msg("session rejected")
				_ = utilities.WriteJSON(w, http.StatusUnauthorized, payload.Fail(UnauthorizedMessage))
				return
			}

			logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("user_id", claims.UserID).Str("role", claims.Role)
			})

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// ClaimsFromContext returns the session claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*types.SessionClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*types.SessionClaims)
	return claims, ok && claims != nil
}

func WithClaims(ctx context.Context, claims *types.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
