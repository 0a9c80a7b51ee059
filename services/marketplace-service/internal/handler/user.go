package handler

import (
	"errors"
	"net/http"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/middleware"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/payload"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/usecase"
	"github.com/vasapolrittideah/propify-api/shared/utilities"
)

const (
	profilePictureField = "profilePicture"
	multipartMemory     = 1 << 20
)

// UserHandler serves profile endpoints for the signed-in account.
type UserHandler struct {
	userUsecase   usecase.UserUsecase
	maxUploadSize int64
}

func NewUserHandler(userUsecase usecase.UserUsecase, maxUploadSize int64) *UserHandler {
	return &UserHandler{
		userUsecase:   userUsecase,
		maxUploadSize: maxUploadSize,
	}
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, usecase.ErrUnauthorized)
		return
	}

	var req payload.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.userUsecase.UpdateUser(r.Context(), claims.UserID, usecase.UpdateProfileParams{
		FullName:        req.FullName,
		ProfileImageURL: req.ProfileImageURL,
		Password:        req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	_ = utilities.WriteJSON(w, http.StatusOK, payload.UserResponse{
		Response: payload.OK("User updated successfully"),
		User:     payload.NewUserSummary(user),
	})
}

func (h *UserHandler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, usecase.ErrUnauthorized)
		return
	}

	// Room for the multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartMemory)

	file, _, err := r.FormFile(profilePictureField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, usecase.ErrFileTooLarge)
			return
		}
		writeError(w, r, &requestError{message: "Please upload an image file"})
		return
	}
	defer file.Close()

	user, err := h.userUsecase.UploadProfilePicture(r.Context(), claims.UserID, file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_ = utilities.WriteJSON(w, http.StatusOK, payload.ProfilePictureResponse{
		Response:        payload.OK("Profile picture uploaded successfully"),
		ProfileImageURL: user.ProfileImageURL,
		User:            payload.NewUserSummary(user),
	})
}
