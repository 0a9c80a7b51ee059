package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/config"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/model"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/repository"
)

// PasswordResetUsecase defines the business logic for OTP based password reset.
type PasswordResetUsecase interface {
	// RequestPasswordReset emails a reset code to the account owner.
	RequestPasswordReset(ctx context.Context, email string) error

	// VerifyResetOTP confirms a code without changing the password.
	VerifyResetOTP(ctx context.Context, email, otp string) error

	// ResetPassword checks the code again and replaces the password.
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
}

type passwordResetUsecase struct {
	userRepo   repository.UserRepository
	hasher     PasswordHasher
	notifier   Notifier
	challenges *challengeManager
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	notifier Notifier,
	cfg *config.Config,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo:   userRepo,
		hasher:     hasher,
		notifier:   notifier,
		challenges: newChallengeManager(userRepo, cfg.OTP.VerificationTTL, cfg.OTP.ResetTTL),
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	// Unknown emails are reported as such; callers can enumerate accounts through this step.
	user, err := u.getUser(ctx, email, ErrUserNotFound)
	if err != nil {
		return err
	}

	_, challenge, err := u.challenges.issue(ctx, user, model.PurposePasswordReset)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Your password reset OTP is: %s\nExpires in %s.",
		challenge.Code, formatTTL(u.challenges.ttl(model.PurposePasswordReset)),
	)
	if err := u.notifier.SendSimple([]string{user.Email}, "Reset Password OTP", body); err != nil {
		return fmt.Errorf("%w: %w", ErrEmailDelivery, err)
	}

	return nil
}

func (u *passwordResetUsecase) VerifyResetOTP(ctx context.Context, email, otp string) error {
	user, err := u.getUser(ctx, email, ErrUserNotFound)
	if err != nil {
		return err
	}

	_, err = u.challenges.check(ctx, user, model.PurposePasswordReset, otp)
	return err
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidInput)
	}

	user, err := u.getUser(ctx, email, ErrInvalidOrExpiredOTP)
	if err != nil {
		return err
	}

	challenge, err := u.challenges.check(ctx, user, model.PurposePasswordReset, otp)
	if err != nil {
		return err
	}

	passwordHash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	_, err = u.challenges.consume(ctx, user, challenge, repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	})
	return err
}

func (u *passwordResetUsecase) getUser(ctx context.Context, email string, notFound error) (*model.User, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, err
	}

	return user, nil
}
