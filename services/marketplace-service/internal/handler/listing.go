package handler

import (
	"net/http"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/middleware"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/model"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/payload"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/usecase"
	"github.com/vasapolrittideah/propify-api/shared/utilities"
)

type ListingHandler struct {
	listingUsecase usecase.ListingUsecase
}

func NewListingHandler(listingUsecase usecase.ListingUsecase) *ListingHandler {
	return &ListingHandler{listingUsecase: listingUsecase}
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, usecase.ErrUnauthorized)
		return
	}

	var req payload.CreateListingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	listing, err := h.listingUsecase.CreateListing(
		r.Context(),
		usecase.Actor{UserID: claims.UserID, Role: model.Role(claims.Role)},
		usecase.CreateListingParams{
			Title:        req.Title,
			Description:  req.Description,
			Address:      req.Address,
			City:         req.City,
			Price:        req.Price,
			ListingType:  model.ListingType(req.ListingType),
			PropertyType: model.PropertyType(req.PropertyType),
			Bedrooms:     req.Bedrooms,
			Bathrooms:    req.Bathrooms,
			AreaSqft:     req.AreaSqft,
			ImageURLs:    req.ImageURLs,
		},
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_ = utilities.WriteJSON(w, http.StatusCreated, payload.ListingResponse{
		Response: payload.OK("Listing created successfully"),
		Listing:  payload.NewListing(listing),
	})
}
