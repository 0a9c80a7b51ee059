package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/config"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/model"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/repository"
	"github.com/vasapolrittideah/propify-api/shared/security"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)
	GoogleSignIn(ctx context.Context, params GoogleSignInParams) (*AuthResult, error)
	VerifySellerOTP(ctx context.Context, email, otp string) (*AuthResult, error)
	ResendSellerOTP(ctx context.Context, email string) error
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	FullName string
	Email    string
	Password string
	Role     model.Role
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// GoogleSignInParams carries the identity asserted by the Google sign-in popup.
type GoogleSignInParams struct {
	Email    string
	FullName string
	PhotoURL string
	Role     model.Role
	IDToken  string
}

// AuthResult is the outcome of a workflow step.
// Session is nil whenever the account may not log in yet.
type AuthResult struct {
	User        *model.User
	Session     *SessionToken
	Created     bool
	RequiresOTP bool
	EmailSent   bool
}

type authUsecase struct {
	userRepo       repository.UserRepository
	hasher         PasswordHasher
	tokens         *SessionTokenIssuer
	notifier       Notifier
	googleVerifier GoogleIdentityVerifier
	challenges     *challengeManager
	cfg            *config.Config
	logger         *zerolog.Logger
	dummyHash      string
}

// NewAuthUsecase creates a new instance of AuthUsecase.
// googleVerifier may be nil, in which case Google sign-in trusts the request body.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	tokens *SessionTokenIssuer,
	notifier Notifier,
	googleVerifier GoogleIdentityVerifier,
	cfg *config.Config,
	logger *zerolog.Logger,
) AuthUsecase {
	u := &authUsecase{
		userRepo:       userRepo,
		hasher:         hasher,
		tokens:         tokens,
		notifier:       notifier,
		googleVerifier: googleVerifier,
		challenges:     newChallengeManager(userRepo, cfg.OTP.VerificationTTL, cfg.OTP.ResetTTL),
		cfg:            cfg,
		logger:         logger,
	}

	// Compared against on unknown emails so both login failures cost one hash verification.
	if secret, err := security.RandomSecret(16); err == nil {
		if hash, err := hasher.Hash(secret); err == nil {
			u.dummyHash = hash
		}
	}

	return u
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	email := normalizeEmail(params.Email)
	fullName := strings.TrimSpace(params.FullName)
	if email == "" || fullName == "" || params.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", ErrInvalidInput)
	}
	if err := checkFullName(fullName); err != nil {
		return nil, err
	}

	role := params.Role
	if role == "" {
		role = model.RoleCustomer
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	passwordHash, err := u.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	return u.createAccount(ctx, &model.User{
		FullName:        fullName,
		Email:           email,
		PasswordHash:    passwordHash,
		Role:            role,
		ProfileImageURL: model.DefaultProfileImageURL,
	})
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if u.dummyHash != "" {
				_, _ = u.hasher.Verify(params.Password, u.dummyHash)
			}
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if ok, err := u.hasher.Verify(params.Password, user.PasswordHash); err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.LoginAllowed() {
		return nil, ErrAccountNotVerified
	}

	return u.createAuthSession(user)
}

func (u *authUsecase) GoogleSignIn(ctx context.Context, params GoogleSignInParams) (*AuthResult, error) {
	email := normalizeEmail(params.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	var googleID string
	if u.googleVerifier != nil {
		if params.IDToken == "" {
			return nil, fmt.Errorf("%w: id token is required", ErrGoogleIdentity)
		}

		identity, err := u.googleVerifier.VerifyIdentity(ctx, params.IDToken, email)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGoogleIdentity, err)
		}
		googleID = identity.Subject
	}

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		return u.googleLogin(ctx, user, googleID)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	role := params.Role
	if role == "" {
		role = model.RoleCustomer
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	if !slices.Contains(u.cfg.Google.SelfServiceRoles, string(role)) {
		return nil, ErrRoleNotAllowed
	}

	placeholder, err := security.RandomSecret(32)
	if err != nil {
		return nil, err
	}
	passwordHash, err := u.hasher.Hash(placeholder)
	if err != nil {
		return nil, err
	}

	profileImageURL := strings.TrimSpace(params.PhotoURL)
	if profileImageURL == "" {
		profileImageURL = model.DefaultProfileImageURL
	}

	return u.createAccount(ctx, &model.User{
		FullName:        googleFullName(params.FullName, email),
		Email:           email,
		PasswordHash:    passwordHash,
		Role:            role,
		ProfileImageURL: profileImageURL,
		IsOAuthAccount:  true,
		GoogleID:        googleID,
	})
}

func (u *authUsecase) googleLogin(ctx context.Context, user *model.User, googleID string) (*AuthResult, error) {
	if !user.LoginAllowed() {
		return nil, ErrAccountNotVerified
	}

	if googleID != "" && user.GoogleID == "" {
		linked, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
			GoogleID: &googleID,
		})
		if err != nil {
			return nil, fmt.Errorf("link google account: %w", err)
		}
		user = linked
	}

	return u.createAuthSession(user)
}

func (u *authUsecase) VerifySellerOTP(ctx context.Context, email, otp string) (*AuthResult, error) {
	user, err := u.getSeller(ctx, email)
	if err != nil {
		return nil, err
	}

	if user.Verified {
		return nil, ErrAlreadyVerified
	}

	challenge, err := u.challenges.check(ctx, user, model.PurposeSellerVerification, otp)
	if err != nil {
		return nil, err
	}

	verified := true
	updated, err := u.challenges.consume(ctx, user, challenge, repository.UpdateUserParams{
		Verified: &verified,
	})
	if err != nil {
		return nil, err
	}

	return u.createAuthSession(updated)
}

func (u *authUsecase) ResendSellerOTP(ctx context.Context, email string) error {
	user, err := u.getSeller(ctx, email)
	if err != nil {
		return err
	}

	if user.Verified {
		return ErrAlreadyVerified
	}

	_, challenge, err := u.challenges.issue(ctx, user, model.PurposeSellerVerification)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Your new OTP is: %s\nIt expires in %s.",
		challenge.Code, formatTTL(u.challenges.ttl(model.PurposeSellerVerification)),
	)
	if err := u.notifier.SendSimple([]string{user.Email}, "Resend OTP - Seller Verification", body); err != nil {
		return fmt.Errorf("%w: %w", ErrEmailDelivery, err)
	}

	return nil
}

func (u *authUsecase) getSeller(ctx context.Context, email string) (*model.User, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}

	if user.Role != model.RoleSeller {
		return nil, ErrSellerNotFound
	}

	return user, nil
}

// createAccount persists a new account and applies the role-dependent verification branch.
func (u *authUsecase) createAccount(ctx context.Context, user *model.User) (*AuthResult, error) {
	var challenge *model.PendingChallenge
	if user.Role == model.RoleSeller {
		c, err := u.challenges.newChallenge(model.PurposeSellerVerification)
		if err != nil {
			return nil, err
		}
		challenge = c
		user.SetChallenge(challenge)
	} else {
		user.Verified = true
	}

	created, err := u.userRepo.CreateUser(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUserAlreadyExists
		}

		return nil, err
	}

	if challenge == nil {
		result, err := u.createAuthSession(created)
		if err != nil {
			return nil, err
		}
		result.Created = true
		return result, nil
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nYour OTP is: %s\nIt will expire in %s.\n\nPropify Team",
		created.FullName, challenge.Code, formatTTL(u.challenges.ttl(model.PurposeSellerVerification)),
	)
	emailSent := true
	if err := u.notifier.SendSimple([]string{created.Email}, "Verify Your Seller Account", body); err != nil {
		// The account exists either way; the seller can ask for a resend.
		u.logger.Error().Err(err).Str("user_id", created.ID.Hex()).Msg("failed to send seller verification otp")
		emailSent = false
	}

	return &AuthResult{
		User:        created,
		Created:     true,
		RequiresOTP: true,
		EmailSent:   emailSent,
	}, nil
}

func (u *authUsecase) createAuthSession(user *model.User) (*AuthResult, error) {
	session, err := u.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:    user,
		Session: session,
	}, nil
}

const (
	minFullNameLength = 5
	maxFullNameLength = 50

	// fallbackFullName names OAuth accounts whose profile and email give nothing usable.
	fallbackFullName = "Propify User"
)

// checkFullName applies the stored name bounds to an already trimmed name.
func checkFullName(name string) error {
	if n := utf8.RuneCountInString(name); n < minFullNameLength || n > maxFullNameLength {
		return fmt.Errorf(
			"%w: full name must be between %d and %d characters",
			ErrInvalidInput, minFullNameLength, maxFullNameLength,
		)
	}
	return nil
}

// googleFullName picks the profile name, then the email local part, then a fallback.
func googleFullName(fullName, email string) string {
	localPart, _, _ := strings.Cut(email, "@")

	for _, candidate := range []string{fullName, localPart} {
		name := strings.TrimSpace(candidate)
		if runes := []rune(name); len(runes) > maxFullNameLength {
			name = strings.TrimSpace(string(runes[:maxFullNameLength]))
		}
		if checkFullName(name) == nil {
			return name
		}
	}

	return fallbackFullName
}

func formatTTL(d time.Duration) string {
	if d%time.Minute == 0 {
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
	return d.String()
}
