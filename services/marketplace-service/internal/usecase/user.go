package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/model"
	"github.com/vasapolrittideah/propify-api/services/marketplace-service/internal/repository"
	"github.com/vasapolrittideah/propify-api/shared/storage"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// UserUsecase defines profile operations performed by the account owner.
type UserUsecase interface {
	UpdateUser(ctx context.Context, userID string, params UpdateProfileParams) (*model.User, error)
	UploadProfilePicture(ctx context.Context, userID string, file io.Reader) (*model.User, error)
}

// UpdateProfileParams holds the optional profile fields. Nil fields are left unchanged.
type UpdateProfileParams struct {
	FullName        *string
	ProfileImageURL *string
	Password        *string
}

type userUsecase struct {
	userRepo      repository.UserRepository
	hasher        PasswordHasher
	storage       storage.ObjectStorage
	maxUploadSize int64
	logger        *zerolog.Logger
}

// NewUserUsecase creates a new instance of UserUsecase.
func NewUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	objectStorage storage.ObjectStorage,
	maxUploadSize int64,
	logger *zerolog.Logger,
) UserUsecase {
	return &userUsecase{
		userRepo:      userRepo,
		hasher:        hasher,
		storage:       objectStorage,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

func (u *userUsecase) UpdateUser(ctx context.Context, userID string, params UpdateProfileParams) (*model.User, error) {
	update := repository.UpdateUserParams{}

	if params.FullName != nil {
		fullName := strings.TrimSpace(*params.FullName)
		if err := checkFullName(fullName); err != nil {
			return nil, err
		}
		update.FullName = &fullName
	}
	if params.ProfileImageURL != nil {
		update.ProfileImageURL = params.ProfileImageURL
	}
	if params.Password != nil {
		passwordHash, err := u.hasher.Hash(*params.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &passwordHash
	}

	user, err := u.userRepo.UpdateUser(ctx, userID, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoUserFields):
			return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrUserNotFound
		default:
			return nil, err
		}
	}

	return user, nil
}

func (u *userUsecase) UploadProfilePicture(ctx context.Context, userID string, file io.Reader) (*model.User, error) {
	if _, err := u.userRepo.GetUser(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(file, u.maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > u.maxUploadSize {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, mtype.String())
	}

	key := fmt.Sprintf("profiles/%s%s", uuid.NewString(), mtype.Extension())
	if err := u.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), mtype.String()); err != nil {
		return nil, fmt.Errorf("store profile picture: %w", err)
	}

	profileImageURL := u.storage.PublicURL(key)
	user, err := u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{
		ProfileImageURL: &profileImageURL,
	})
	if err != nil {
		if delErr := u.storage.Delete(ctx, key); delErr != nil {
			u.logger.Warn().Err(delErr).Str("key", key).Msg("failed to remove orphaned profile picture")
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}
