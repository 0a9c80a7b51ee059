package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role is the marketplace role an account signs up with.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleSeller
}

// DefaultProfileImageURL is shown until the owner uploads a picture.
const DefaultProfileImageURL = "https://cdn-icons-png.flaticon.com/512/847/847969.png"

// User represents a marketplace account.
type User struct {
	ID                    bson.ObjectID     `bson:"_id,omitempty"`
	FullName              string            `bson:"full_name"`
	Email                 string            `bson:"email"`
	PasswordHash          string            `bson:"password_hash"`
	Role                  Role              `bson:"role"`
	ProfileImageURL       string            `bson:"profile_image_url"`
	IsOAuthAccount        bool              `bson:"is_oauth_account"`
	GoogleID              string            `bson:"google_id,omitempty"`
	Verified              bool              `bson:"verified"`
	VerificationChallenge *PendingChallenge `bson:"verification_challenge,omitempty"`
	ResetChallenge        *PendingChallenge `bson:"reset_challenge,omitempty"`
	CreatedAt             time.Time         `bson:"created_at"`
	UpdatedAt             time.Time         `bson:"updated_at"`
}

// LoginAllowed reports whether the account may receive a session token.
// Sellers are locked out until their email OTP is confirmed.
func (u *User) LoginAllowed() bool {
	return u.Role != RoleSeller || u.Verified
}

// Challenge returns the outstanding challenge for purpose, or nil.
func (u *User) Challenge(purpose ChallengePurpose) *PendingChallenge {
	switch purpose {
	case PurposeSellerVerification:
		return u.VerificationChallenge
	case PurposePasswordReset:
		return u.ResetChallenge
	}
	return nil
}

// SetChallenge replaces the challenge stored for c.Purpose. A nil c is ignored.
func (u *User) SetChallenge(c *PendingChallenge) {
	if c == nil {
		return
	}
	switch c.Purpose {
	case PurposeSellerVerification:
		u.VerificationChallenge = c
	case PurposePasswordReset:
		u.ResetChallenge = c
	}
}

// ClearChallenge drops the challenge for purpose.
func (u *User) ClearChallenge(purpose ChallengePurpose) {
	switch purpose {
	case PurposeSellerVerification:
		u.VerificationChallenge = nil
	case PurposePasswordReset:
		u.ResetChallenge = nil
	}
}
