package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeCondo      PropertyType = "condo"
	PropertyTypeTownhouse  PropertyType = "townhouse"
	PropertyTypeLand       PropertyType = "land"
	PropertyTypeCommercial PropertyType = "commercial"
)

// Listing is a property offered by a seller.
type Listing struct {
	ID           bson.ObjectID   `bson:"_id,omitempty"`
	SellerID     bson.ObjectID   `bson:"seller_id"`
	Title        string          `bson:"title"`
	Description  string          `bson:"description"`
	Address      string          `bson:"address"`
	City         string          `bson:"city"`
	Price        bson.Decimal128 `bson:"price"`
	ListingType  ListingType     `bson:"listing_type"`
	PropertyType PropertyType    `bson:"property_type"`
	Bedrooms     int             `bson:"bedrooms"`
	Bathrooms    int             `bson:"bathrooms"`
	AreaSqft     float64         `bson:"area_sqft"`
	ImageURLs    []string        `bson:"image_urls"`
	CreatedAt    time.Time       `bson:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at"`
}
