package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
	"github.com/vegin/skin-analysis-service/internal/core/ports"
)

// ProfileViewUseCase assembles the profile page: profile fields, the
// decoded most recent analysis, the bounded history, and the stored
// recommendation batches for the latest analysis. Every decode degrades
// independently; the view is returned even when single entries fail.
type ProfileViewUseCase struct {
	profiles        ports.ProfileRepository
	analyses        ports.AnalysisRepository
	recommendations ports.RecommendationRepository
	blobs           ports.BlobStore
	metrics         ports.PipelineMetrics

	historyLimit int
}

func NewProfileViewUseCase(
	profiles ports.ProfileRepository,
	analyses ports.AnalysisRepository,
	recommendations ports.RecommendationRepository,
	blobs ports.BlobStore,
	historyLimit int,
) *ProfileViewUseCase {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &ProfileViewUseCase{
		profiles:        profiles,
		analyses:        analyses,
		recommendations: recommendations,
		blobs:           blobs,
		historyLimit:    historyLimit,
	}
}

func (uc *ProfileViewUseCase) WithMetrics(m ports.PipelineMetrics) *ProfileViewUseCase {
	uc.metrics = m
	return uc
}

func (uc *ProfileViewUseCase) BuildProfileView(ctx context.Context, userID int64) (*domain.ProfileView, error) {
	profile, err := uc.profiles.FindByUser(ctx, userID)
	if err != nil && !domain.IsKind(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	recent, err := uc.analyses.FindAllByUser(ctx, userID, uc.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent analyses: %w", err)
	}

	view := &domain.ProfileView{
		Concerns:        []string{},
		History:         []domain.HistoryEntry{},
		Recommendations: []domain.RecommendationItem{},
	}
	if profile != nil {
		view.ProfileImageURL = profile.ProfileImageURL
		view.SkinType = profile.SkinType
		if profile.Concerns != nil {
			view.Concerns = profile.Concerns
		}
	}

	var latestID int64
	var latestSkinType string
	if len(recent) > 0 {
		latest := recent[0]
		latestID = latest.ID
		view.LastAnalysis, latestSkinType = uc.decodeLastAnalysis(&latest)
	}

	// Lazy skin-type back-fill: an explicit, idempotent write that only
	// lands when the profile has no skin type of its own.
	if view.SkinType == "" && latestSkinType != "" {
		if err := uc.profiles.SetSkinTypeIfUnset(ctx, userID, latestSkinType); err != nil {
			slog.Warn("skin_type_backfill_error", "user_id", userID, "error", err)
		} else {
			view.SkinType = latestSkinType
			if uc.metrics != nil {
				uc.metrics.RecordSkinTypeBackfill()
			}
		}
	}

	for i := range recent {
		view.History = append(view.History, uc.decodeHistoryEntry(&recent[i]))
	}

	if latestID != 0 {
		view.Recommendations = uc.loadRecommendationItems(ctx, latestID)
	}

	return view, nil
}

// decodeLastAnalysis extracts the headline projection of the most recent
// record. A decode failure is logged and the projection omitted; the
// rest of the view is unaffected.
func (uc *ProfileViewUseCase) decodeLastAnalysis(rec *domain.AnalysisRecord) (*domain.LastAnalysis, string) {
	if rec.Status != domain.StatusDone || len(rec.ResultJSON) == 0 {
		return nil, ""
	}
	resp, err := domain.DecodeInferenceResponse(rec.ResultJSON)
	if err != nil {
		slog.Warn("last_analysis_decode_error", "analysis_id", rec.ID, "error", err)
		return nil, ""
	}
	if !resp.HasFusion() {
		return nil, ""
	}

	fusion := extractFusion(resp)
	products, dropped := mapProducts(resp.Recommendations)
	noteDroppedProducts(uc.metrics, "profile last analysis", rec.ID, dropped)

	return &domain.LastAnalysis{
		AnalysisID:      rec.ID,
		SkinCode:        fusion.skinCode,
		SkinType:        fusion.skinType,
		Date:            rec.CreatedAt,
		Concerns:        fusion.concerns,
		Recommendations: products,
	}, fusion.skinType
}

func (uc *ProfileViewUseCase) decodeHistoryEntry(rec *domain.AnalysisRecord) domain.HistoryEntry {
	entry := domain.HistoryEntry{
		AnalysisID:      rec.ID,
		CreatedAt:       rec.CreatedAt,
		Concerns:        map[string]any{},
		Recommendations: []domain.ProductView{},
	}
	if rec.StorageKey != "" {
		entry.ImageURL = uc.blobs.URLFor(rec.StorageKey)
	}
	if len(rec.ResultJSON) == 0 {
		return entry
	}

	resp, err := domain.DecodeInferenceResponse(rec.ResultJSON)
	if err != nil {
		slog.Warn("history_entry_decode_error", "analysis_id", rec.ID, "error", err)
		return entry
	}
	fusion := extractFusion(resp)
	entry.Concerns = fusion.concerns

	products, dropped := mapProducts(resp.Recommendations)
	noteDroppedProducts(uc.metrics, "profile history", rec.ID, dropped)
	entry.Recommendations = products
	return entry
}

// loadRecommendationItems is best-effort: an empty result is valid and a
// lookup failure only costs this section of the view.
func (uc *ProfileViewUseCase) loadRecommendationItems(ctx context.Context, analysisID int64) []domain.RecommendationItem {
	batches, err := uc.recommendations.FindByAnalysis(ctx, analysisID)
	if err != nil {
		slog.Warn("recommendation_batch_lookup_error", "analysis_id", analysisID, "error", err)
		return []domain.RecommendationItem{}
	}
	items := make([]domain.RecommendationItem, 0, len(batches))
	for _, b := range batches {
		items = append(items, domain.RecommendationItem{
			ID:         b.ID,
			AnalysisID: b.AnalysisID,
			Items:      string(b.ItemsJSON),
			CreatedAt:  b.CreatedAt,
		})
	}
	return items
}
