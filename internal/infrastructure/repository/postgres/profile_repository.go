package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) FindByUser(ctx context.Context, userID int64) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, skin_type, concerns, skin_code, tone, profile_image_url, version, updated_at
FROM skin_profile
WHERE user_id = $1
`, userID)

	var p domain.Profile
	var skinType, skinCode, tone, imageURL sql.NullString
	var concerns []byte
	if err := row.Scan(&p.ID, &p.UserID, &skinType, &concerns, &skinCode, &tone, &imageURL, &p.Version, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "find profile", fmt.Errorf("user=%d", userID))
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	p.SkinType = skinType.String
	p.SkinCode = skinCode.String
	p.Tone = tone.String
	p.ProfileImageURL = imageURL.String
	if len(concerns) > 0 {
		if err := json.Unmarshal(concerns, &p.Concerns); err != nil {
			return nil, fmt.Errorf("decode profile concerns: %w", err)
		}
	}
	if p.Concerns == nil {
		p.Concerns = []string{}
	}
	return &p, nil
}

// Upsert inserts a new profile row or replaces an existing one. Existing
// rows are version checked: a stale caller loses to whoever wrote between
// its read and this write.
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	concerns, err := json.Marshal(nonNilConcerns(p.Concerns))
	if err != nil {
		return fmt.Errorf("encode profile concerns: %w", err)
	}
	now := time.Now().UTC()

	if p.ID == 0 {
		err := r.db.QueryRowContext(ctx, `
INSERT INTO skin_profile (user_id, skin_type, concerns, skin_code, tone, profile_image_url, version, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,0,$7)
RETURNING id
`,
			p.UserID, p.SkinType, concerns, p.SkinCode, p.Tone, p.ProfileImageURL, now,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		p.Version = 0
		p.UpdatedAt = now
		return nil
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE skin_profile
SET skin_type = $3, concerns = $4, skin_code = $5, tone = $6, profile_image_url = $7,
    version = version + 1, updated_at = $8
WHERE user_id = $1 AND version = $2
`,
		p.UserID, p.Version, p.SkinType, concerns, p.SkinCode, p.Tone, p.ProfileImageURL, now,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrConflict, "update profile",
			fmt.Errorf("user=%d stale version %d", p.UserID, p.Version))
	}
	p.Version++
	p.UpdatedAt = now
	return nil
}

// SetSkinTypeIfUnset fills skin_type only when the stored value is still
// empty, creating the profile row on first contact. Safe to call on every
// profile read.
func (r *ProfileRepository) SetSkinTypeIfUnset(ctx context.Context, userID int64, skinType string) error {
	if skinType == "" {
		return nil
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE skin_profile
SET skin_type = $2, updated_at = $3
WHERE user_id = $1 AND (skin_type IS NULL OR skin_type = '')
`, userID, skinType, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("backfill skin type: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("backfill skin type rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	err = r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM skin_profile WHERE user_id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check profile existence: %w", err)
	}
	if exists {
		// Skin type already set, nothing to do.
		return nil
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO skin_profile (user_id, skin_type, concerns, version, updated_at)
VALUES ($1,$2,'[]',0,$3)
ON CONFLICT (user_id) DO NOTHING
`, userID, skinType, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert profile for backfill: %w", err)
	}
	return nil
}

func (r *ProfileRepository) SetProfileImageURL(ctx context.Context, userID int64, url string) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE skin_profile
SET profile_image_url = $2, updated_at = $3
WHERE user_id = $1
`, userID, url, now)
	if err != nil {
		return fmt.Errorf("set profile image: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set profile image rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO skin_profile (user_id, concerns, profile_image_url, version, updated_at)
VALUES ($1,'[]',$2,0,$3)
ON CONFLICT (user_id) DO NOTHING
`, userID, url, now)
	if err != nil {
		return fmt.Errorf("insert profile for image: %w", err)
	}
	return nil
}

func nonNilConcerns(c []string) []string {
	if c == nil {
		return []string{}
	}
	return c
}
