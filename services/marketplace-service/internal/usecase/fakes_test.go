package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/config"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/fakes"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/model"
	"github.com/vasapolrittideah/propify-api/shared/auth"
	"github.com/vasapolrittideah/propify-api/shared/security"
)

func storedUser(t *testing.T, repo *fakes.UserRepository, email string) *model.User {
	t.Helper()
	user, err := repo.GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	return user
}

func lastOTP(t *testing.T, notifier *fakes.Notifier) string {
	t.Helper()
	code := notifier.LastOTP()
	require.NotEmpty(t, code, "no otp sent")
	return code
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() *config.Config {
	return &config.Config{
		Token: config.TokenConfig{
			Secret:     strings.Repeat("s", 32),
			Issuer:     "propify",
			SessionTTL: config.DefaultSessionTokenTTL,
		},
		OTP: config.OTPConfig{
			VerificationTTL: config.DefaultVerificationOTPTTL,
			ResetTTL:        config.DefaultResetOTPTTL,
		},
		Google: config.GoogleConfig{
			SelfServiceRoles: []string{"customer", "seller"},
		},
	}
}

func testHasher() *security.Hasher {
	return security.NewHasher(security.HashParams{MemoryKiB: 8 * 1024, TimeCost: 1, Parallelism: 1})
}

func testTokenIssuer(cfg *config.Config) *SessionTokenIssuer {
	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.Issuer)
	return NewSessionTokenIssuer(jwtAuth, cfg.Token.SessionTTL)
}

type authFixture struct {
	repo     *fakes.UserRepository
	notifier *fakes.Notifier
	clock    *fakeClock
	tokens   *SessionTokenIssuer
	auth     *authUsecase
	reset    *passwordResetUsecase
}

func newAuthFixture(t *testing.T, verifier GoogleIdentityVerifier) *authFixture {
	t.Helper()

	cfg := testConfig()
	repo := fakes.NewUserRepository()
	notifier := &fakes.Notifier{}
	clock := newFakeClock()
	hasher := testHasher()
	tokens := testTokenIssuer(cfg)
	logger := zerolog.Nop()

	authUC := NewAuthUsecase(repo, hasher, tokens, notifier, verifier, cfg, &logger).(*authUsecase)
	authUC.challenges.now = clock.Now

	resetUC := NewPasswordResetUsecase(repo, hasher, notifier, cfg).(*passwordResetUsecase)
	resetUC.challenges.now = clock.Now

	return &authFixture{
		repo:     repo,
		notifier: notifier,
		clock:    clock,
		tokens:   tokens,
		auth:     authUC,
		reset:    resetUC,
	}
}
