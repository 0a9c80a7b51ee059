package model

import "time"

// ChallengePurpose tells which workflow an OTP belongs to.
type ChallengePurpose string

const (
	PurposeSellerVerification ChallengePurpose = "seller_verification"
	PurposePasswordReset      ChallengePurpose = "password_reset"
)

// Field returns the user document field holding challenges of this purpose.
func (p ChallengePurpose) Field() string {
	switch p {
	case PurposeSellerVerification:
		return "verification_challenge"
	case PurposePasswordReset:
		return "reset_challenge"
	}
	return ""
}

// PendingChallenge is an outstanding one-time code. Code and expiry live and die together.
type PendingChallenge struct {
	Code      string           `bson:"code"`
	ExpiresAt time.Time        `bson:"expires_at"`
	Purpose   ChallengePurpose `bson:"purpose"`
	// Attempts counts wrong codes submitted against this challenge.
	Attempts int `bson:"attempts"`
}

// Expired reports whether the challenge can no longer be redeemed at now.
func (c *PendingChallenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
