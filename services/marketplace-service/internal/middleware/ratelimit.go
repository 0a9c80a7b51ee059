package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/payload"
	"github.com/vasapolrittideah/propify-api/shared/utilities"
)

const tooManyRequestsMessage = "Too many requests, try again later"

// Limiter counts hits per key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit throttles requests per client address within scope.
// A nil limiter disables throttling, and limiter errors let the request through.
func RateLimit(limiter Limiter, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utilities.ClientIP(r)

			allowed, err := limiter.Allow(r.Context(), scope+":"+ip)
			if err != nil {
				hlog.FromRequest(r).Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				hlog.FromRequest(r).Warn().Str("scope", scope).Str("ip", ip).Msg("rate limit exceeded")
				_ = utilities.WriteJSON(w, http.StatusTooManyRequests, payload.Fail(tooManyRequestsMessage))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
