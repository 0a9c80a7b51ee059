package payload

import (
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/model"
)

type SignupRequest struct {
	FullName string `json:"fullName" validate:"required,min=5,max=50"`
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role"     validate:"omitempty,oneof=customer seller"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleSignInRequest struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	FullName string `json:"fullName" validate:"omitempty,max=100"`
	PhotoURL string `json:"photoURL" validate:"omitempty,url"`
	Role     string `json:"role"     validate:"omitempty,oneof=customer seller"`
	IDToken  string `json:"idToken"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	OTP      string `json:"otp"      validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// UserSummary is the client-facing view of an account.
type UserSummary struct {
	ID              string `json:"id"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	ProfileImageURL string `json:"profileImageUrl"`
	IsVerified      bool   `json:"isVerified"`
	IsOAuthAccount  bool   `json:"isOAuthAccount"`
}

func NewUserSummary(user *model.User) *UserSummary {
	if user == nil {
		return nil
	}

	return &UserSummary{
		ID:              user.ID.Hex(),
		FullName:        user.FullName,
		Email:           user.Email,
		Role:            string(user.Role),
		ProfileImageURL: user.ProfileImageURL,
		IsVerified:      user.Verified,
		IsOAuthAccount:  user.IsOAuthAccount,
	}
}

type AuthResponse struct {
	Response
	User        *UserSummary `json:"user,omitempty"`
	RequiresOTP bool         `json:"requiresOtp,omitempty"`
	EmailSent   *bool        `json:"emailSent,omitempty"`
}
