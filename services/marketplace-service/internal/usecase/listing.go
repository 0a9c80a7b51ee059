package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/model"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/repository"
)

// ListingUsecase defines listing operations.
type ListingUsecase interface {
	CreateListing(ctx context.Context, seller Actor, params CreateListingParams) (*model.Listing, error)
}

// Actor is the authenticated caller as decoded from the session token.
type Actor struct {
	UserID string
	Role   model.Role
}

// CreateListingParams is a validated listing payload.
type CreateListingParams struct {
	Title        string
	Description  string
	Address      string
	City         string
	Price        decimal.Decimal
	ListingType  model.ListingType
	PropertyType model.PropertyType
	Bedrooms     int
	Bathrooms    int
	AreaSqft     float64
	ImageURLs    []string
}

type listingUsecase struct {
	listingRepo repository.ListingRepository
}

// NewListingUsecase creates a new instance of ListingUsecase.
func NewListingUsecase(listingRepo repository.ListingRepository) ListingUsecase {
	return &listingUsecase{listingRepo: listingRepo}
}

func (u *listingUsecase) CreateListing(
	ctx context.Context,
	seller Actor,
	params CreateListingParams,
) (*model.Listing, error) {
	if seller.Role != model.RoleSeller {
		return nil, fmt.Errorf("%w: only sellers can create listings", ErrForbidden)
	}

	sellerID, err := bson.ObjectIDFromHex(seller.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	if !params.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}

	price, err := bson.ParseDecimal128(params.Price.String())
	if err != nil {
		return nil, fmt.Errorf("%w: price: %w", ErrInvalidInput, err)
	}

	imageURLs := params.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}

	return u.listingRepo.CreateListing(ctx, &model.Listing{
		SellerID:     sellerID,
		Title:        strings.TrimSpace(params.Title),
		Description:  strings.TrimSpace(params.Description),
		Address:      strings.TrimSpace(params.Address),
		City:         strings.TrimSpace(params.City),
		Price:        price,
		ListingType:  params.ListingType,
		PropertyType: params.PropertyType,
		Bedrooms:     params.Bedrooms,
		Bathrooms:    params.Bathrooms,
		AreaSqft:     params.AreaSqft,
		ImageURLs:    imageURLs,
	})
}
