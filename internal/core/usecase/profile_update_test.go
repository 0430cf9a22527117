package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
)

func TestUpsertCreatesProfileLazily(t *testing.T) {
	profiles := &profileRepoFake{}
	uc := NewUpdateProfileUseCase(profiles, newBlobStoreFake())

	err := uc.Upsert(context.Background(), 4, domain.ProfileUpdate{
		SkinType: "건성", SkinCode: "DSPW", Tone: "cool", Concerns: []string{"acne"},
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if profiles.upserted == nil || profiles.upserted.UserID != 4 {
		t.Fatalf("expected upsert for user 4")
	}
	if profiles.upserted.SkinType != "건성" || profiles.upserted.SkinCode != "DSPW" {
		t.Fatalf("fields not carried: %+v", profiles.upserted)
	}
}

func TestUpsertPreservesProfileImageURL(t *testing.T) {
	profiles := &profileRepoFake{profile: &domain.Profile{
		ID: 1, UserID: 4, ProfileImageURL: "https://cdn.test/me.jpg", Version: 3,
	}}
	uc := NewUpdateProfileUseCase(profiles, newBlobStoreFake())

	if err := uc.Upsert(context.Background(), 4, domain.ProfileUpdate{SkinType: "지성"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if profiles.upserted.ProfileImageURL != "https://cdn.test/me.jpg" {
		t.Fatalf("field upsert must not touch the profile image url")
	}
	if profiles.upserted.Version != 3 {
		t.Fatalf("expected stored version carried for the optimistic check")
	}
	if profiles.upserted.Concerns == nil {
		t.Fatalf("concerns must default to empty list")
	}
}

func TestUpdateProfileImage(t *testing.T) {
	profiles := &profileRepoFake{}
	blobs := newBlobStoreFake()
	uc := NewUpdateProfileUseCase(profiles, blobs)

	url, err := uc.UpdateProfileImage(context.Background(), 4, []byte("img"), "me.png", "")
	if err != nil {
		t.Fatalf("UpdateProfileImage() error = %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.test/profile/4/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected image url %s", url)
	}
	if profiles.imageURL != url {
		t.Fatalf("url not persisted to the profile")
	}
}

func TestUpdateProfileImageEmpty(t *testing.T) {
	uc := NewUpdateProfileUseCase(&profileRepoFake{}, newBlobStoreFake())

	_, err := uc.UpdateProfileImage(context.Background(), 4, nil, "me.png", "")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
