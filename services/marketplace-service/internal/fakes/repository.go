// Package fakes provides in-memory collaborators for tests.
package fakes

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/model"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/repository"
)

// UserRepository mirrors the Mongo repository semantics: unique emails,
// ErrNoDocuments for misses and conditional challenge matching.
type UserRepository struct {
	mu    sync.Mutex
	users map[bson.ObjectID]*model.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: map[bson.ObjectID]*model.User{}}
}

func cloneUser(u *model.User) *model.User {
	c := *u
	if u.VerificationChallenge != nil {
		vc := *u.VerificationChallenge
		c.VerificationChallenge = &vc
	}
	if u.ResetChallenge != nil {
		rc := *u.ResetChallenge
		c.ResetChallenge = &rc
	}
	return &c
}

func (r *UserRepository) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, mongo.WriteException{
				WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
			}
		}
	}

	now := time.Now()
	user.ID = bson.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = cloneUser(user)

	return cloneUser(user), nil
}

func (r *UserRepository) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, err := r.find(id)
	if err != nil {
		return nil, err
	}
	return cloneUser(user), nil
}

func (r *UserRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *UserRepository) UpdateUser(
	_ context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, err := r.find(id)
	if err != nil {
		return nil, err
	}

	if m := params.MatchChallenge; m != nil {
		stored := user.Challenge(m.Purpose)
		if stored == nil || stored.Code != m.Code || !stored.ExpiresAt.Equal(m.ExpiresAt) {
			return nil, mongo.ErrNoDocuments
		}
	}

	changed := false
	if params.FullName != nil {
		user.FullName, changed = *params.FullName, true
	}
	if params.PasswordHash != nil {
		user.PasswordHash, changed = *params.PasswordHash, true
	}
	if params.ProfileImageURL != nil {
		user.ProfileImageURL, changed = *params.ProfileImageURL, true
	}
	if params.Verified != nil {
		user.Verified, changed = *params.Verified, true
	}
	if params.GoogleID != nil {
		user.GoogleID, changed = *params.GoogleID, true
	}
	if params.SetChallenge != nil {
		c := *params.SetChallenge
		user.SetChallenge(&c)
		changed = true
	}
	for _, purpose := range params.ClearChallenges {
		user.ClearChallenge(purpose)
		changed = true
	}
	if purpose := params.CountChallengeMiss; purpose != "" {
		if c := user.Challenge(purpose); c != nil {
			c.Attempts++
		}
		changed = true
	}
	if !changed {
		return nil, repository.ErrNoUserFields
	}

	user.UpdatedAt = time.Now()
	return cloneUser(user), nil
}

func (r *UserRepository) find(id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	user, ok := r.users[objectID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

// ListingRepository stores listings in insertion order.
type ListingRepository struct {
	mu       sync.Mutex
	listings []*model.Listing
}

func (r *ListingRepository) CreateListing(_ context.Context, listing *model.Listing) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	listing.ID = bson.NewObjectID()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	r.listings = append(r.listings, listing)

	return listing, nil
}

func (r *ListingRepository) Listings() []*model.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.Listing(nil), r.listings...)
}
