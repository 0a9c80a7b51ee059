package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/config"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/fakes"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/middleware"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/usecase"
	"github.com/vasapolrittideah/propify-api/shared/auth"
	"github.com/vasapolrittideah/propify-api/shared/metrics"
	"github.com/vasapolrittideah/propify-api/shared/security"
)

type testServer struct {
	router   http.Handler
	users    *fakes.UserRepository
	listings *fakes.ListingRepository
	notifier *fakes.Notifier
	storage  *fakes.ObjectStorage
	metrics  *metrics.Metrics
}

func newTestServer(t *testing.T, limiter middleware.Limiter) *testServer {
	t.Helper()

	cfg := &config.Config{
		Token: config.TokenConfig{
			Secret:       strings.Repeat("k", 32),
			Issuer:       "propify",
			SessionTTL:   config.DefaultSessionTokenTTL,
			CookieName:   "token",
			CookieSecure: true,
		},
		OTP: config.OTPConfig{
			VerificationTTL: config.DefaultVerificationOTPTTL,
			ResetTTL:        config.DefaultResetOTPTTL,
		},
		Google: config.GoogleConfig{SelfServiceRoles: []string{"customer", "seller"}},
	}

	s := &testServer{
		users:    fakes.NewUserRepository(),
		listings: &fakes.ListingRepository{},
		notifier: &fakes.Notifier{},
		storage:  fakes.NewObjectStorage("https://cdn.example.com"),
		metrics:  metrics.New("propify_test"),
	}

	logger := zerolog.Nop()
	hasher := security.NewHasher(security.HashParams{MemoryKiB: 8 * 1024, TimeCost: 1, Parallelism: 1})
	tokens := usecase.NewSessionTokenIssuer(
		auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.Issuer),
		cfg.Token.SessionTTL,
	)

	authUsecase := usecase.NewAuthUsecase(s.users, hasher, tokens, s.notifier, nil, cfg, &logger)
	passwordResetUsecase := usecase.NewPasswordResetUsecase(s.users, hasher, s.notifier, cfg)
	userUsecase := usecase.NewUserUsecase(s.users, hasher, s.storage, 1024, &logger)
	listingUsecase := usecase.NewListingUsecase(s.listings)

	s.router = NewRouter(RouterConfig{
		Logger:             &logger,
		Metrics:            s.metrics,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		Sessions:           tokens,
		CookieName:         cfg.Token.CookieName,
		Limiter:            limiter,
		Auth:               NewAuthHandler(authUsecase, passwordResetUsecase, cfg.Token, s.metrics),
		User:               NewUserHandler(userUsecase, 1024),
		Listing:            NewListingHandler(listingUsecase),
	})

	return s
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T, path, field string, content []byte, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, "avatar.bin")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}
