package handler

import (
	"net/http"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/payload"
	"github.com/vasapolrittideah/propify-api/shared/utilities"
)

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.EmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "forgot_password", err)
		return
	}

	if err := h.passwordResetUsecase.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.fail(w, r, "forgot_password", err)
		return
	}

	h.metrics.RecordAuthEvent("forgot_password", "success")
	_ = utilities.WriteJSON(w, http.StatusOK, payload.OK("OTP sent to email"))
}

func (h *AuthHandler) VerifyResetOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "verify_reset_otp", err)
		return
	}

	if err := h.passwordResetUsecase.VerifyResetOTP(r.Context(), req.Email, req.OTP); err != nil {
		h.fail(w, r, "verify_reset_otp", err)
		return
	}

	h.metrics.RecordAuthEvent("verify_reset_otp", "success")
	_ = utilities.WriteJSON(w, http.StatusOK, payload.OK("OTP verified"))
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "reset_password", err)
		return
	}

	if err := h.passwordResetUsecase.ResetPassword(r.Context(), req.Email, req.OTP, req.Password); err != nil {
		h.fail(w, r, "reset_password", err)
		return
	}

	h.metrics.RecordAuthEvent("reset_password", "success")
	_ = utilities.WriteJSON(w, http.StatusOK, payload.OK("Password reset successful"))
}
