package ports

import (
	"context"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
)

// AnalysisSubmitter is the inbound contract for the submission pipeline.
type AnalysisSubmitter interface {
	Submit(ctx context.Context, userID int64, image []byte, filename string, surveyJSON []byte) (*domain.Receipt, error)
	DirectAnalyze(ctx context.Context, image []byte, filename, contentType string, surveyJSON []byte) (*domain.InferenceResponse, error)
}

// ResultMaterializer is the inbound contract for the enriched result read.
type ResultMaterializer interface {
	Materialize(ctx context.Context, analysisID, userID int64) (*domain.ResultView, error)
}

// ProfileProjector assembles the profile page read model.
type ProfileProjector interface {
	BuildProfileView(ctx context.Context, userID int64) (*domain.ProfileView, error)
}

// ProfileEditor mutates the per-user profile.
type ProfileEditor interface {
	Upsert(ctx context.Context, userID int64, update domain.ProfileUpdate) error
	UpdateProfileImage(ctx context.Context, userID int64, image []byte, filename, contentType string) (string, error)
}
