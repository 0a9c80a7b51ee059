package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/propify-api/shared/ratelimit"
)

func signup(t *testing.T, s *testServer, email, role string) map[string]any {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"fullName": "Test Person",
		"email":    email,
		"password": "secret1",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(t, rec)
}

func TestCustomerSignupSetsSessionCookie(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"fullName": "Alice Smith",
		"email":    "alice@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Customer registered successfully", body["message"])
	assert.NotContains(t, body, "token")

	user := body["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "customer", user["role"])
	assert.Equal(t, true, user["isVerified"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, rec.Body.String(), "password")

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)

	dup := s.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"fullName": "Alice Again",
		"email":    "ALICE@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.Equal(t, "User already exists", decodeBody(t, dup)["message"])
}

func TestSellerVerificationScenario(t *testing.T) {
	s := newTestServer(t, nil)

	body := signup(t, s, "sam@example.com", "seller")
	assert.Equal(t, "Seller registered. OTP sent to email.", body["message"])
	assert.Equal(t, true, body["requiresOtp"])
	assert.Equal(t, true, body["emailSent"])
	code := s.notifier.LastOTP()
	require.Len(t, code, 6)

	login := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "sam@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, login.Code)
	assert.Equal(t, "Verify your seller account first", decodeBody(t, login)["message"])
	assert.Nil(t, sessionCookie(login))

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	bad := s.do(t, http.MethodPost, "/api/auth/verify-otp", map[string]string{"email": "sam@example.com", "otp": wrong})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	assert.Equal(t, "Invalid or expired OTP", decodeBody(t, bad)["message"])

	ok := s.do(t, http.MethodPost, "/api/auth/verify-otp", map[string]string{"email": "sam@example.com", "otp": code})
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())
	assert.Equal(t, "Seller verified successfully", decodeBody(t, ok)["message"])
	require.NotNil(t, sessionCookie(ok))

	login = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "sam@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, login.Code)
	assert.NotNil(t, sessionCookie(login))

	again := s.do(t, http.MethodPost, "/api/auth/verify-otp", map[string]string{"email": "sam@example.com", "otp": code})
	assert.Equal(t, http.StatusBadRequest, again.Code)
	assert.Equal(t, "Seller already verified", decodeBody(t, again)["message"])

	unknown := s.do(t, http.MethodPost, "/api/auth/resend-otp", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, unknown.Code)
	assert.Equal(t, "Seller not found", decodeBody(t, unknown)["message"])
}

func TestSignupTrimsFullNameBeforeLengthCheck(t *testing.T) {
	s := newTestServer(t, nil)

	for _, name := range []string{"    Bo", "        "} {
		rec := s.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
			"fullName": name,
			"email":    "bo@example.com",
			"password": "secret1",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%q", name)
		assert.Nil(t, sessionCookie(rec))
	}

	_, err := s.users.GetUserByEmail(context.Background(), "bo@example.com")
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestResendOTPReportsEmailFailure(t *testing.T) {
	s := newTestServer(t, nil)
	signup(t, s, "sam@example.com", "seller")

	s.notifier.SetErr(errors.New("smtp down"))
	rec := s.do(t, http.MethodPost, "/api/auth/resend-otp", map[string]string{"email": "sam@example.com"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to send email, please try again later", decodeBody(t, rec)["message"])
	assert.Equal(t, false, decodeBody(t, rec)["success"])

	s.notifier.SetErr(nil)
	rec = s.do(t, http.MethodPost, "/api/auth/resend-otp", map[string]string{"email": "sam@example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OTP resent successfully", decodeBody(t, rec)["message"])
}

func TestLoginFailuresLookIdentical(t *testing.T) {
	s := newTestServer(t, nil)
	signup(t, s, "alice@example.com", "customer")

	wrongPassword := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "alice@example.com", "password": "nope-nope"})
	unknownEmail := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "ghost@example.com", "password": "secret1"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.JSONEq(t, `{"success":false,"message":"Invalid credentials"}`, unknownEmail.Body.String())
}

func TestLogoutClearsCookie(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Logged out successfully"}`, rec.Body.String())

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestPasswordResetScenario(t *testing.T) {
	s := newTestServer(t, nil)
	signup(t, s, "alice@example.com", "customer")

	missing := s.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "User not found", decodeBody(t, missing)["message"])

	rec := s.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OTP sent to email", decodeBody(t, rec)["message"])
	code := s.notifier.LastOTP()
	require.Len(t, code, 6)

	rec = s.do(t, http.MethodPost, "/api/auth/verify-reset-otp", map[string]string{"email": "alice@example.com", "otp": code})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email":    "alice@example.com",
		"otp":      code,
		"password": "brand-new",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Password reset successful", decodeBody(t, rec)["message"])

	rec = s.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email":    "alice@example.com",
		"otp":      code,
		"password": "another-one",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	old := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "alice@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, old.Code)

	fresh := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "alice@example.com", "password": "brand-new"})
	assert.Equal(t, http.StatusOK, fresh.Code)
}

func TestGoogleSignInUpsert(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/auth/google", map[string]string{
		"email":    "gina@example.com",
		"fullName": "Gina Google",
		"photoURL": "https://example.com/gina.png",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, true, user["isOAuthAccount"])
	assert.Equal(t, "https://example.com/gina.png", user["profileImageUrl"])
	assert.NotNil(t, sessionCookie(rec))

	rec = s.do(t, http.MethodPost, "/api/auth/google", map[string]string{"email": "gina@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Google sign-in successful", decodeBody(t, rec)["message"])

	rec = s.do(t, http.MethodPost, "/api/auth/google", map[string]string{"email": "sally@example.com", "role": "seller"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["requiresOtp"])
	assert.Nil(t, sessionCookie(rec))
}

func TestRequestValidation(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name  string
		path  string
		body  any
		field string
	}{
		{
			name:  "short full name",
			path:  "/api/auth/signup",
			body:  map[string]string{"fullName": "Al", "email": "al@example.com", "password": "secret1"},
			field: "fullName",
		},
		{
			name:  "bad email",
			path:  "/api/auth/signup",
			body:  map[string]string{"fullName": "Alice Smith", "email": "not-an-email", "password": "secret1"},
			field: "email",
		},
		{
			name:  "short password",
			path:  "/api/auth/signup",
			body:  map[string]string{"fullName": "Alice Smith", "email": "a@example.com", "password": "123"},
			field: "password",
		},
		{
			name:  "unknown role",
			path:  "/api/auth/signup",
			body:  map[string]string{"fullName": "Alice Smith", "email": "a@example.com", "password": "secret1", "role": "admin"},
			field: "role",
		},
		{
			name:  "non numeric otp",
			path:  "/api/auth/verify-otp",
			body:  map[string]string{"email": "a@example.com", "otp": "abcdef"},
			field: "otp",
		},
		{
			name:  "unknown field",
			path:  "/api/auth/login",
			body:  `{"email":"a@example.com","password":"secret1","isAdmin":true}`,
			field: "body",
		},
		{
			name:  "malformed json",
			path:  "/api/auth/login",
			body:  `{"email":`,
			field: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["message"])
			errs, ok := body["errors"].(map[string]any)
			require.True(t, ok, rec.Body.String())
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestAuthEventsAreCounted(t *testing.T) {
	s := newTestServer(t, nil)
	signup(t, s, "alice@example.com", "customer")
	s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "alice@example.com", "password": "wrong-one"})

	rec := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `propify_test_auth_events_total{event="signup",outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), `propify_test_auth_events_total{event="login",outcome="invalid_credentials"} 1`)
}

func TestAuthEndpointsAreRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter, err := ratelimit.NewLimiter(client, ratelimit.Config{Window: time.Minute, Max: 2})
	require.NoError(t, err)

	s := newTestServer(t, limiter)
	creds := map[string]string{"email": "ghost@example.com", "password": "secret1"}

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/login", creds).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/login", creds).Code)

	rec := s.do(t, http.MethodPost, "/api/auth/login", creds)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Too many requests, try again later"}`, rec.Body.String())

	// Other endpoints keep their own budget.
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "ghost@example.com"}).Code)
}

func TestHealthMetricsAndNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	s.do(t, http.MethodPost, "/api/auth/logout", nil)
	rec = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "propify_test_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/api/auth/logout"`)

	rec = s.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Route not found"}`, rec.Body.String())
}
