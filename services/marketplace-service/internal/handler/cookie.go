package handler

import (
	"net/http"
	"time"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/config"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/usecase"
)

type sessionCookies struct {
	name   string
	domain string
	secure bool
}

func newSessionCookies(cfg config.TokenConfig) sessionCookies {
	return sessionCookies{
		name:   cfg.CookieName,
		domain: cfg.CookieDomain,
		secure: cfg.CookieSecure,
	}
}

func (c sessionCookies) set(w http.ResponseWriter, session *usecase.SessionToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    session.Token,
		Path:     "/",
		Domain:   c.domain,
		Expires:  session.ExpiresAt,
		MaxAge:   int(session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (c sessionCookies) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		Domain:   c.domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}
