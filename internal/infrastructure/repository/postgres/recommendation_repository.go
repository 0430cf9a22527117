package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
)

type RecommendationRepository struct {
	db *sql.DB
}

func NewRecommendationRepository(db *sql.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

func (r *RecommendationRepository) FindByAnalysis(ctx context.Context, analysisID int64) ([]domain.RecommendationBatch, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, analysis_id, items, created_at
FROM recommendation
WHERE analysis_id = $1
ORDER BY created_at DESC, id DESC
`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	var out []domain.RecommendationBatch
	for rows.Next() {
		var b domain.RecommendationBatch
		var items []byte
		if err := rows.Scan(&b.ID, &b.UserID, &b.AnalysisID, &items, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		b.ItemsJSON = items
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}
	return out, nil
}
