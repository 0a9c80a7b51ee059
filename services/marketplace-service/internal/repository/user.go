package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/model"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)
}

// UpdateUserParams defines the optional parameters for updating a user.
// Only the fields that are not nil will be updated.
type UpdateUserParams struct {
	FullName        *string
	PasswordHash    *string
	ProfileImageURL *string
	Verified        *bool
	GoogleID        *string

	// SetChallenge stores a challenge under its purpose, replacing any previous one.
	SetChallenge *model.PendingChallenge

	// ClearChallenges removes the challenges of the given purposes.
	ClearChallenges []model.ChallengePurpose

	// CountChallengeMiss increments the attempt counter of the challenge with this purpose.
	CountChallengeMiss model.ChallengePurpose

	// MatchChallenge makes the update conditional on the document still holding
	// exactly this challenge. A lost race yields mongo.ErrNoDocuments.
	MatchChallenge *model.PendingChallenge
}

var ErrNoUserFields = errors.New("no user fields to update")

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

// NewUserMongoRepository creates a new MongoDB repository for users.
func NewUserMongoRepository(db *mongo.Database) UserRepository {
	return &userMongoRepository{db: db}
}

// EnsureUserIndexes creates the unique email index the store relies on for
// rejecting duplicate signups.
func EnsureUserIndexes(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetPartialFilterExpression(bson.M{
				"google_id": bson.M{"$exists": true},
			}),
		},
	}

	names, err := db.Collection(userCollection).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return err
	}

	logger.Info().Strs("indexes", names).Msg("user indexes ensured")
	return nil
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var user model.User
	if err := r.db.Collection(userCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.Collection(userCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) UpdateUser(
	ctx context.Context,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	update, err := buildUserUpdate(params, time.Now())
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": objectID}
	if c := params.MatchChallenge; c != nil {
		filter[c.Purpose.Field()+".code"] = c.Code
		filter[c.Purpose.Field()+".expires_at"] = c.ExpiresAt
	}

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func buildUserUpdate(params UpdateUserParams, now time.Time) (bson.M, error) {
	set := bson.M{}
	unset := bson.M{}

	if params.FullName != nil {
		set["full_name"] = *params.FullName
	}
	if params.PasswordHash != nil {
		set["password_hash"] = *params.PasswordHash
	}
	if params.ProfileImageURL != nil {
		set["profile_image_url"] = *params.ProfileImageURL
	}
	if params.Verified != nil {
		set["verified"] = *params.Verified
	}
	if params.GoogleID != nil {
		set["google_id"] = *params.GoogleID
	}
	if c := params.SetChallenge; c != nil {
		set[c.Purpose.Field()] = c
	}
	for _, purpose := range params.ClearChallenges {
		unset[purpose.Field()] = ""
	}
	inc := bson.M{}
	if purpose := params.CountChallengeMiss; purpose != "" {
		inc[purpose.Field()+".attempts"] = 1
	}

	if len(set) == 0 && len(unset) == 0 && len(inc) == 0 {
		return nil, ErrNoUserFields
	}

	set["updated_at"] = now

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if len(inc) > 0 {
		update["$inc"] = inc
	}

	return update, nil
}
