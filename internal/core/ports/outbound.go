package ports

import (
	"context"
	"io"
	"time"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
)

// BlobStore stores uploaded images under generated keys.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data io.Reader) error
	Exists(ctx context.Context, key string) (bool, error)
	// URLFor is pure: it resolves a key to a public URL without I/O.
	URLFor(key string) string
}

// InferenceClient calls the external analysis service synchronously.
type InferenceClient interface {
	AnalyzeImageURL(ctx context.Context, imageURL string, surveyJSON []byte) (*domain.InferenceResponse, error)
	AnalyzeImageBytes(ctx context.Context, filename, contentType string, image, surveyJSON []byte) (*domain.InferenceResponse, error)
}

// AnalysisRepository persists analysis attempts. Update has whole-record
// replace semantics and must reject illegal status transitions; identity,
// owner and creation timestamp never change.
type AnalysisRepository interface {
	Create(ctx context.Context, rec *domain.AnalysisRecord) (int64, error)
	FindByIDAndUser(ctx context.Context, id, userID int64) (*domain.AnalysisRecord, error)
	FindAllByUser(ctx context.Context, userID int64, limit int) ([]domain.AnalysisRecord, error)
	Update(ctx context.Context, rec *domain.AnalysisRecord) error
}

// ProfileRepository persists the per-user profile.
type ProfileRepository interface {
	FindByUser(ctx context.Context, userID int64) (*domain.Profile, error)
	// Upsert creates or replaces the caller-editable fields. The expected
	// version must match the stored one for an existing row.
	Upsert(ctx context.Context, profile *domain.Profile) error
	// SetSkinTypeIfUnset writes skinType only when the stored value is
	// empty; it is idempotent and safe to call on every profile read.
	SetSkinTypeIfUnset(ctx context.Context, userID int64, skinType string) error
	SetProfileImageURL(ctx context.Context, userID int64, imageURL string) error
}

// RecommendationRepository reads stored recommendation batches.
type RecommendationRepository interface {
	FindByAnalysis(ctx context.Context, analysisID int64) ([]domain.RecommendationBatch, error)
}

// ClassificationDirectory looks up static reference data by skin code.
type ClassificationDirectory interface {
	Lookup(code string) (domain.ClassificationInfo, bool)
}

// EventPublisher emits best-effort notifications after a pipeline run.
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, userID, analysisID int64) error
}

// PipelineMetrics records the pipeline instruments that only the core
// observes: the inference round-trip, entries dropped during result
// mapping and lazy skin-type back-fills. Implementations must be safe
// for concurrent use; a nil recorder disables recording.
type PipelineMetrics interface {
	RecordInference(outcome string, duration time.Duration)
	RecordDroppedProducts(count int)
	RecordSkinTypeBackfill()
}
