package usecase

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountNotVerified  = errors.New("seller account is not verified")
	ErrUserNotFound        = errors.New("user not found")
	ErrSellerNotFound      = errors.New("seller not found")
	ErrAlreadyVerified     = errors.New("seller already verified")
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired otp")
	ErrEmailDelivery       = errors.New("email delivery failed")
	ErrRoleNotAllowed      = errors.New("role cannot be self-assigned")
	ErrGoogleIdentity      = errors.New("google identity could not be verified")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrUnsupportedMedia    = errors.New("unsupported media type")
	ErrFileTooLarge        = errors.New("file too large")
)
