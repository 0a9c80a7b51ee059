package payload

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/model"
)

type CreateListingRequest struct {
	Title        string          `json:"title"        validate:"required,min=5,max=100"`
	Description  string          `json:"description"  validate:"required,min=20,max=5000"`
	Address      string          `json:"address"      validate:"required,max=200"`
	City         string          `json:"city"         validate:"required,max=100"`
	Price        decimal.Decimal `json:"price"`
	ListingType  string          `json:"listingType"  validate:"required,oneof=sale rent"`
	PropertyType string          `json:"propertyType" validate:"required,oneof=house apartment condo townhouse land commercial"`
	Bedrooms     int             `json:"bedrooms"     validate:"gte=0,lte=50"`
	Bathrooms    int             `json:"bathrooms"    validate:"gte=0,lte=50"`
	AreaSqft     float64         `json:"areaSqft"     validate:"gt=0"`
	ImageURLs    []string        `json:"imageUrls"    validate:"max=20,dive,url"`
}

type Listing struct {
	ID           string    `json:"id"`
	SellerID     string    `json:"sellerId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Price        string    `json:"price"`
	ListingType  string    `json:"listingType"`
	PropertyType string    `json:"propertyType"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	AreaSqft     float64   `json:"areaSqft"`
	ImageURLs    []string  `json:"imageUrls"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewListing(listing *model.Listing) *Listing {
	return &Listing{
		ID:           listing.ID.Hex(),
		SellerID:     listing.SellerID.Hex(),
		Title:        listing.Title,
		Description:  listing.Description,
		Address:      listing.Address,
		City:         listing.City,
		Price:        listing.Price.String(),
		ListingType:  string(listing.ListingType),
		PropertyType: string(listing.PropertyType),
		Bedrooms:     listing.Bedrooms,
		Bathrooms:    listing.Bathrooms,
		AreaSqft:     listing.AreaSqft,
		ImageURLs:    listing.ImageURLs,
		CreatedAt:    listing.CreatedAt,
	}
}

type ListingResponse struct {
	Response
	Listing *Listing `json:"listing"`
}
