package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/fakes"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/model"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type userFixture struct {
	repo    *fakes.UserRepository
	storage *fakes.ObjectStorage
	users   UserUsecase
	user    *model.User
}

func newUserFixture(t *testing.T, maxUploadSize int64) *userFixture {
	t.Helper()

	repo := fakes.NewUserRepository()
	store := fakes.NewObjectStorage("https://cdn.example.com")
	logger := zerolog.Nop()

	user, err := repo.CreateUser(context.Background(), &model.User{
		FullName:        "Alice Smith",
		Email:           "alice@example.com",
		PasswordHash:    "hash",
		Role:            model.RoleCustomer,
		ProfileImageURL: model.DefaultProfileImageURL,
		Verified:        true,
	})
	require.NoError(t, err)

	return &userFixture{
		repo:    repo,
		storage: store,
		users:   NewUserUsecase(repo, testHasher(), store, maxUploadSize, &logger),
		user:    user,
	}
}

func TestUpdateUser(t *testing.T) {
	f := newUserFixture(t, 1024)
	ctx := context.Background()

	name := "  Alice Cooper "
	updated, err := f.users.UpdateUser(ctx, f.user.ID.Hex(), UpdateProfileParams{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.FullName)
	assert.Equal(t, f.user.PasswordHash, updated.PasswordHash)

	password := "brand-new"
	updated, err = f.users.UpdateUser(ctx, f.user.ID.Hex(), UpdateProfileParams{Password: &password})
	require.NoError(t, err)
	assert.NotEqual(t, f.user.PasswordHash, updated.PasswordHash)

	ok, err := testHasher().Verify(password, updated.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateUserRejects(t *testing.T) {
	f := newUserFixture(t, 1024)
	ctx := context.Background()

	_, err := f.users.UpdateUser(ctx, f.user.ID.Hex(), UpdateProfileParams{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	name := "Nobody Here"
	_, err = f.users.UpdateUser(ctx, bson.NewObjectID().Hex(), UpdateProfileParams{FullName: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.users.UpdateUser(ctx, "not-an-id", UpdateProfileParams{FullName: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)

	for _, short := range []string{"      ", "   Bo   "} {
		_, err = f.users.UpdateUser(ctx, f.user.ID.Hex(), UpdateProfileParams{FullName: &short})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	stored, err := f.repo.GetUser(ctx, f.user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", stored.FullName)
}

func TestUploadProfilePicture(t *testing.T) {
	f := newUserFixture(t, 1024)

	updated, err := f.users.UploadProfilePicture(context.Background(), f.user.ID.Hex(), bytes.NewReader(pngHeader))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(updated.ProfileImageURL, "https://cdn.example.com/profiles/"))
	assert.True(t, strings.HasSuffix(updated.ProfileImageURL, ".png"))
	require.Len(t, f.storage.Objects(), 1)
	for key, data := range f.storage.Objects() {
		assert.Equal(t, "https://cdn.example.com/"+key, updated.ProfileImageURL)
		assert.Equal(t, pngHeader, data)
	}
}

func TestUploadProfilePictureRejects(t *testing.T) {
	f := newUserFixture(t, 64)
	ctx := context.Background()
	id := f.user.ID.Hex()

	_, err := f.users.UploadProfilePicture(ctx, id, strings.NewReader("just some plain text"))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	_, err = f.users.UploadProfilePicture(ctx, id, bytes.NewReader(append(pngHeader, make([]byte, 64)...)))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = f.users.UploadProfilePicture(ctx, id, bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.users.UploadProfilePicture(ctx, bson.NewObjectID().Hex(), bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrUserNotFound)

	f.storage.PutErr = errors.New("bucket unavailable")
	_, err = f.users.UploadProfilePicture(ctx, id, bytes.NewReader(pngHeader))
	require.Error(t, err)

	assert.Empty(t, f.storage.Objects())
	assert.Equal(t, model.DefaultProfileImageURL, storedUser(t, f.repo, "alice@example.com").ProfileImageURL)
}
