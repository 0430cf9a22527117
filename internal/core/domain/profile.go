package domain

import "time"

// Profile is the mutable per-user skin profile. At most one row per user,
// created lazily on first write. Version backs optimistic concurrency on
// upsert so a concurrent back-fill and an explicit update cannot silently
// overwrite each other.
type Profile struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	SkinType        string    `json:"skin_type,omitempty"`
	Concerns        []string  `json:"concerns"`
	SkinCode        string    `json:"skin_code,omitempty"`
	Tone            string    `json:"tone,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	Version         int64     `json:"version"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProfileUpdate carries the caller-editable profile fields. The profile
// image URL is managed separately and never touched by a field update.
type ProfileUpdate struct {
	SkinType string   `json:"skinType"`
	SkinCode string   `json:"mbti"`
	Tone     string   `json:"tone"`
	Concerns []string `json:"concerns"`
}
