package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/middleware"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/payload"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/usecase"
	"github.com/vasapolrittideah/propify-api/shared/utilities"
)

type errorMapping struct {
	err     error
	status  int
	message string
	outcome string
}

var errorMappings = []errorMapping{
	{usecase.ErrInvalidInput, http.StatusBadRequest, "", "invalid_input"},
	{usecase.ErrUserAlreadyExists, http.StatusConflict, "User already exists", "conflict"},
	{usecase.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials", "invalid_credentials"},
	{usecase.ErrAccountNotVerified, http.StatusForbidden, "Verify your seller account first", "unverified"},
	{usecase.ErrUserNotFound, http.StatusNotFound, "User not found", "not_found"},
	{usecase.ErrSellerNotFound, http.StatusNotFound, "Seller not found", "not_found"},
	{usecase.ErrAlreadyVerified, http.StatusBadRequest, "Seller already verified", "already_verified"},
	{usecase.ErrInvalidOrExpiredOTP, http.StatusBadRequest, "Invalid or expired OTP", "invalid_otp"},
	{usecase.ErrEmailDelivery, http.StatusInternalServerError, "Failed to send email, please try again later", "email_failed"},
	{usecase.ErrRoleNotAllowed, http.StatusForbidden, "This role cannot be assigned through Google sign-in", "forbidden"},
	{usecase.ErrGoogleIdentity, http.StatusUnauthorized, "Google identity could not be verified", "google_rejected"},
	{usecase.ErrUnauthorized, http.StatusUnauthorized, middleware.UnauthorizedMessage, "unauthorized"},
	{usecase.ErrForbidden, http.StatusForbidden, "Only sellers can perform this action", "forbidden"},
	{usecase.ErrUnsupportedMedia, http.StatusBadRequest, "Please upload a JPEG, PNG, WebP or GIF image", "invalid_input"},
	{usecase.ErrFileTooLarge, http.StatusBadRequest, "Profile picture is too large", "invalid_input"},
}

func lookupError(err error) (errorMapping, bool) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m, true
		}
	}
	return errorMapping{}, false
}

// outcomeOf labels err for the auth event counter.
func outcomeOf(err error) string {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return "invalid_input"
	}
	if m, ok := lookupError(err); ok {
		return m.outcome
	}
	return "error"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		body := payload.Fail(reqErr.message)
		body.Errors = reqErr.fields
		_ = utilities.WriteJSON(w, http.StatusBadRequest, body)
		return
	}

	m, ok := lookupError(err)
	if !ok {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		_ = utilities.WriteJSON(w, http.StatusInternalServerError, payload.Fail("Something went wrong"))
		return
	}

	if m.status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	}

	message := m.message
	if message == "" {
		message = detailOf(err, m.err)
	}

	_ = utilities.WriteJSON(w, m.status, payload.Fail(message))
}

// detailOf turns "invalid input: nothing to update" into "Nothing to update".
func detailOf(err, sentinel error) string {
	detail := strings.TrimPrefix(err.Error(), sentinel.Error())
	detail = strings.TrimSpace(strings.TrimPrefix(detail, ":"))
	if detail == "" {
		detail = sentinel.Error()
	}

	runes := []rune(detail)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
