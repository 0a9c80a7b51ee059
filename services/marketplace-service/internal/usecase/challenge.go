package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/model"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/repository"
	"github.com/vasapolrittideah/propify-api/shared/security"
)

// challengeManager issues, checks and consumes one-time codes for every purpose.
type challengeManager struct {
	userRepo repository.UserRepository
	ttls     map[model.ChallengePurpose]time.Duration
	now      func() time.Time
}

func newChallengeManager(
	userRepo repository.UserRepository,
	verificationTTL time.Duration,
	resetTTL time.Duration,
) *challengeManager {
	return &challengeManager{
		userRepo: userRepo,
		ttls: map[model.ChallengePurpose]time.Duration{
			model.PurposeSellerVerification: verificationTTL,
			model.PurposePasswordReset:      resetTTL,
		},
		now: time.Now,
	}
}

func (m *challengeManager) ttl(purpose model.ChallengePurpose) time.Duration {
	return m.ttls[purpose]
}

// newChallenge generates a code without persisting it.
func (m *challengeManager) newChallenge(purpose model.ChallengePurpose) (*model.PendingChallenge, error) {
	code, err := security.GenerateOTP()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}

	return &model.PendingChallenge{
		Code:      code,
		ExpiresAt: m.now().Add(m.ttl(purpose)).UTC().Truncate(time.Millisecond),
		Purpose:   purpose,
	}, nil
}

// issue stores a fresh challenge on the user, superseding any outstanding one.
func (m *challengeManager) issue(
	ctx context.Context,
	user *model.User,
	purpose model.ChallengePurpose,
) (*model.User, *model.PendingChallenge, error) {
	challenge, err := m.newChallenge(purpose)
	if err != nil {
		return nil, nil, err
	}

	updated, err := m.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		SetChallenge: challenge,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("store %s challenge: %w", purpose, err)
	}

	return updated, challenge, nil
}

// maxChallengeAttempts is how many wrong codes a challenge survives.
const maxChallengeAttempts = 5

// check validates code against the stored challenge at the current time.
// A wrong code counts against the challenge, which is dropped once it runs out of attempts.
func (m *challengeManager) check(
	ctx context.Context,
	user *model.User,
	purpose model.ChallengePurpose,
	code string,
) (*model.PendingChallenge, error) {
	challenge := user.Challenge(purpose)
	if challenge == nil || challenge.Expired(m.now()) || challenge.Attempts >= maxChallengeAttempts {
		return nil, ErrInvalidOrExpiredOTP
	}

	if !security.CompareOTP(challenge.Code, code) {
		if err := m.recordMiss(ctx, user, challenge); err != nil {
			return nil, err
		}
		return nil, ErrInvalidOrExpiredOTP
	}

	return challenge, nil
}

func (m *challengeManager) recordMiss(ctx context.Context, user *model.User, challenge *model.PendingChallenge) error {
	updated, err := m.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		CountChallengeMiss: challenge.Purpose,
		MatchChallenge:     challenge,
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		// already superseded or consumed
		return nil
	}
	if err != nil {
		return fmt.Errorf("count %s attempt: %w", challenge.Purpose, err)
	}

	current := updated.Challenge(challenge.Purpose)
	if current == nil || current.Attempts < maxChallengeAttempts {
		return nil
	}

	_, err = m.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		ClearChallenges: []model.ChallengePurpose{challenge.Purpose},
		MatchChallenge:  current,
	})
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("drop %s challenge: %w", challenge.Purpose, err)
	}

	return nil
}

// consume applies params and clears the challenge in one conditional write.
// A concurrent consumer or a superseding resend makes this fail with ErrInvalidOrExpiredOTP.
func (m *challengeManager) consume(
	ctx context.Context,
	user *model.User,
	challenge *model.PendingChallenge,
	params repository.UpdateUserParams,
) (*model.User, error) {
	params.MatchChallenge = challenge
	params.ClearChallenges = append(params.ClearChallenges, challenge.Purpose)

	updated, err := m.userRepo.UpdateUser(ctx, user.ID.Hex(), params)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidOrExpiredOTP
		}
		return nil, fmt.Errorf("consume %s challenge: %w", challenge.Purpose, err)
	}

	return updated, nil
}
