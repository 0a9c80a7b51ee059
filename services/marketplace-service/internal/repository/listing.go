package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/model"
)

// ListingRepository defines the interface for listing persistence.
type ListingRepository interface {
	CreateListing(ctx context.Context, listing *model.Listing) (*model.Listing, error)
}

const listingCollection = "listings"

type listingMongoRepository struct {
	db *mongo.Database
}

// NewListingMongoRepository creates a new MongoDB repository for listings.
func NewListingMongoRepository(db *mongo.Database) ListingRepository {
	return &listingMongoRepository{db: db}
}

// EnsureListingIndexes creates the seller lookup index.
func EnsureListingIndexes(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) error {
	names, err := db.Collection(listingCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "seller_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return err
	}

	logger.Info().Strs("indexes", names).Msg("listing indexes ensured")
	return nil
}

func (r *listingMongoRepository) CreateListing(ctx context.Context, listing *model.Listing) (*model.Listing, error) {
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	result, err := r.db.Collection(listingCollection).InsertOne(ctx, listing)
	if err != nil {
		return nil, err
	}

	objectID, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}
	listing.ID = objectID

	return listing, nil
}
