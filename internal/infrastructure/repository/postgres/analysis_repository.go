package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
)

// AnalysisRepository persists analysis attempts. Update enforces the
// status transition table at the write boundary: the WHERE clause only
// matches rows whose current status may legally move to the new one, so
// an illegal transition surfaces as a conflict instead of a lost write.
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Create(ctx context.Context, rec *domain.AnalysisRecord) (int64, error) {
	if !rec.Status.Valid() {
		return 0, domain.WrapError(domain.ErrInvalidInput, "insert analysis", fmt.Errorf("bad status %q", rec.Status))
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO skin_analysis (user_id, storage_key, survey, status, result, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id
`,
		rec.UserID, rec.StorageKey, []byte(rec.SurveyJSON), string(rec.Status), nullableJSON(rec.ResultJSON), rec.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert analysis: %w", err)
	}
	return id, nil
}

func (r *AnalysisRepository) FindByIDAndUser(ctx context.Context, id, userID int64) (*domain.AnalysisRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, storage_key, survey, status, result, created_at
FROM skin_analysis
WHERE id = $1 AND user_id = $2
`, id, userID)

	rec, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "find analysis", fmt.Errorf("id=%d", id))
		}
		return nil, fmt.Errorf("scan analysis: %w", err)
	}
	return rec, nil
}

func (r *AnalysisRepository) FindAllByUser(ctx context.Context, userID int64, limit int) ([]domain.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, storage_key, survey, status, result, created_at
FROM skin_analysis
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var out []domain.AnalysisRecord
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return out, nil
}

// Update replaces the mutable columns of one record. Identity, owner and
// created_at are never written.
func (r *AnalysisRepository) Update(ctx context.Context, rec *domain.AnalysisRecord) error {
	if !rec.Status.Valid() {
		return domain.WrapError(domain.ErrInvalidInput, "update analysis", fmt.Errorf("bad status %q", rec.Status))
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE skin_analysis
SET storage_key = $3, survey = $4, status = $5, result = $6
WHERE id = $1 AND user_id = $2
  AND (status = $5 OR (status = 'PENDING' AND $5 IN ('DONE','FAILED')))
`,
		rec.ID, rec.UserID, rec.StorageKey, []byte(rec.SurveyJSON), string(rec.Status), nullableJSON(rec.ResultJSON),
	)
	if err != nil {
		return fmt.Errorf("update analysis: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update analysis rows affected: %w", err)
	}
	if affected == 0 {
		return r.explainUpdateMiss(ctx, rec)
	}
	return nil
}

// explainUpdateMiss distinguishes a missing record from a rejected
// transition after a zero-row update.
func (r *AnalysisRepository) explainUpdateMiss(ctx context.Context, rec *domain.AnalysisRecord) error {
	var current string
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM skin_analysis WHERE id = $1 AND user_id = $2`,
		rec.ID, rec.UserID,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.WrapError(domain.ErrNotFound, "update analysis", fmt.Errorf("id=%d", rec.ID))
	}
	if err != nil {
		return fmt.Errorf("inspect analysis status: %w", err)
	}
	return domain.WrapError(domain.ErrConflict, "update analysis",
		fmt.Errorf("illegal transition %s -> %s", current, rec.Status))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*domain.AnalysisRecord, error) {
	var rec domain.AnalysisRecord
	var storageKey sql.NullString
	var survey, result []byte
	var status string

	if err := row.Scan(&rec.ID, &rec.UserID, &storageKey, &survey, &status, &result, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.StorageKey = storageKey.String
	rec.SurveyJSON = survey
	rec.ResultJSON = result
	rec.Status = domain.AnalysisStatus(status)
	return &rec, nil
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
