package handler

import (
	"net/http"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/config"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/model"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/payload"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/usecase"
	"github.com/vasapolrittideah/propify-api/shared/metrics"
	"github.com/vasapolrittideah/propify-api/shared/utilities"
)

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	authUsecase          usecase.AuthUsecase
	passwordResetUsecase usecase.PasswordResetUsecase
	cookies              sessionCookies
	metrics              *metrics.Metrics
}

func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	passwordResetUsecase usecase.PasswordResetUsecase,
	tokenCfg config.TokenConfig,
	m *metrics.Metrics,
) *AuthHandler {
	return &AuthHandler{
		authUsecase:          authUsecase,
		passwordResetUsecase: passwordResetUsecase,
		cookies:              newSessionCookies(tokenCfg),
		metrics:              m,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req payload.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "signup", err)
		return
	}

	result, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		h.fail(w, r, "signup", err)
		return
	}

	h.metrics.RecordAuthEvent("signup", "success")

	message := "Customer registered successfully"
	if result.RequiresOTP {
		message = "Seller registered. OTP sent to email."
		if !result.EmailSent {
			message = "Seller registered, but the OTP email could not be sent. Please request a new OTP."
		}
	}

	h.respond(w, http.StatusCreated, message, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "login", err)
		return
	}

	result, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}

	h.metrics.RecordAuthEvent("login", "success")
	h.respond(w, http.StatusOK, "Login successful", result)
}

// Logout clears the session cookie. Issued tokens stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.clear(w)
	h.metrics.RecordAuthEvent("logout", "success")
	_ = utilities.WriteJSON(w, http.StatusOK, payload.OK("Logged out successfully"))
}

func (h *AuthHandler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req payload.GoogleSignInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "google", err)
		return
	}

	result, err := h.authUsecase.GoogleSignIn(r.Context(), usecase.GoogleSignInParams{
		Email:    req.Email,
		FullName: req.FullName,
		PhotoURL: req.PhotoURL,
		Role:     model.Role(req.Role),
		IDToken:  req.IDToken,
	})
	if err != nil {
		h.fail(w, r, "google", err)
		return
	}

	h.metrics.RecordAuthEvent("google", "success")

	status := http.StatusOK
	message := "Google sign-in successful"
	if result.Created {
		status = http.StatusCreated
		message = "Account created with Google"
	}
	if result.RequiresOTP {
		message = "Seller registered with Google. OTP sent to email."
		if !result.EmailSent {
			message = "Seller registered with Google, but the OTP email could not be sent. Please request a new OTP."
		}
	}

	h.respond(w, status, message, result)
}

func (h *AuthHandler) VerifySellerOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "verify_otp", err)
		return
	}

	result, err := h.authUsecase.VerifySellerOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		h.fail(w, r, "verify_otp", err)
		return
	}

	h.metrics.RecordAuthEvent("verify_otp", "success")
	h.respond(w, http.StatusOK, "Seller verified successfully", result)
}

func (h *AuthHandler) ResendSellerOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.EmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, "resend_otp", err)
		return
	}

	if err := h.authUsecase.ResendSellerOTP(r.Context(), req.Email); err != nil {
		h.fail(w, r, "resend_otp", err)
		return
	}

	h.metrics.RecordAuthEvent("resend_otp", "success")
	_ = utilities.WriteJSON(w, http.StatusOK, payload.OK("OTP resent successfully"))
}

// respond sets the session cookie when the result carries one and writes the user summary.
func (h *AuthHandler) respond(w http.ResponseWriter, status int, message string, result *usecase.AuthResult) {
	if result.Session != nil {
		h.cookies.set(w, result.Session)
	}

	body := payload.AuthResponse{
		Response:    payload.OK(message),
		User:        payload.NewUserSummary(result.User),
		RequiresOTP: result.RequiresOTP,
	}
	if result.RequiresOTP {
		emailSent := result.EmailSent
		body.EmailSent = &emailSent
	}

	_ = utilities.WriteJSON(w, status, body)
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, event string, err error) {
	h.metrics.RecordAuthEvent(event, outcomeOf(err))
	writeError(w, r, err)
}
