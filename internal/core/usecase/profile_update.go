package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
	"github.com/vegin/skin-analysis-service/internal/core/ports"
)

// UpdateProfileUseCase mutates the per-user profile: field upsert and
// profile image replacement. The image goes through the same blob store
// as analysis uploads, under its own prefix.
type UpdateProfileUseCase struct {
	profiles ports.ProfileRepository
	blobs    ports.BlobStore
	now      func() time.Time
}

func NewUpdateProfileUseCase(profiles ports.ProfileRepository, blobs ports.BlobStore) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{
		profiles: profiles,
		blobs:    blobs,
		now:      time.Now,
	}
}

// Upsert replaces the caller-editable fields. The stored profile image
// URL is carried forward untouched; version checking in the repository
// rejects a concurrent writer instead of silently overwriting it.
func (uc *UpdateProfileUseCase) Upsert(ctx context.Context, userID int64, update domain.ProfileUpdate) error {
	existing, err := uc.profiles.FindByUser(ctx, userID)
	if err != nil && !domain.IsKind(err, domain.ErrNotFound) {
		return fmt.Errorf("load profile: %w", err)
	}

	profile := &domain.Profile{
		UserID:   userID,
		SkinType: update.SkinType,
		SkinCode: update.SkinCode,
		Tone:     update.Tone,
		Concerns: update.Concerns,
	}
	if profile.Concerns == nil {
		profile.Concerns = []string{}
	}
	if existing != nil {
		profile.ID = existing.ID
		profile.Version = existing.Version
		profile.ProfileImageURL = existing.ProfileImageURL
	}

	if err := uc.profiles.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (uc *UpdateProfileUseCase) UpdateProfileImage(
	ctx context.Context,
	userID int64,
	image []byte,
	filename, contentType string,
) (string, error) {
	if len(image) == 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "update profile image", errors.New("image is empty"))
	}
	if contentType == "" {
		contentType = contentTypeForFilename(filename)
	}

	key := fmt.Sprintf("profile/%d/%d_%s%s", userID, uc.now().UnixMilli(), uuid.NewString()[:8], filepath.Ext(filename))
	if err := uc.blobs.Put(ctx, key, contentType, bytes.NewReader(image)); err != nil {
		return "", domain.WrapError(domain.ErrStorageFailure, "upload profile image", err)
	}
	exists, err := uc.blobs.Exists(ctx, key)
	if err != nil || !exists {
		if err == nil {
			err = errors.New("object missing after put")
		}
		return "", domain.WrapError(domain.ErrStorageFailure, "verify profile image upload", err)
	}

	imageURL := uc.blobs.URLFor(key)
	if err := uc.profiles.SetProfileImageURL(ctx, userID, imageURL); err != nil {
		return "", fmt.Errorf("persist profile image url: %w", err)
	}
	return imageURL, nil
}
