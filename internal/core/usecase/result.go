package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
	"github.com/vegin/skin-analysis-service/internal/core/ports"
)

var errNoResultPayload = errors.New("analysis has no result payload")

// MaterializeResultUseCase turns a stored raw inference payload into the
// enriched, strongly-shaped result view. Read-only.
type MaterializeResultUseCase struct {
	analyses       ports.AnalysisRepository
	classification ports.ClassificationDirectory
	metrics        ports.PipelineMetrics
}

func NewMaterializeResultUseCase(
	analyses ports.AnalysisRepository,
	classification ports.ClassificationDirectory,
) *MaterializeResultUseCase {
	return &MaterializeResultUseCase{
		analyses:       analyses,
		classification: classification,
	}
}

func (uc *MaterializeResultUseCase) WithMetrics(m ports.PipelineMetrics) *MaterializeResultUseCase {
	uc.metrics = m
	return uc
}

func (uc *MaterializeResultUseCase) Materialize(ctx context.Context, analysisID, userID int64) (*domain.ResultView, error) {
	rec, err := uc.analyses.FindByIDAndUser(ctx, analysisID, userID)
	if err != nil {
		return nil, err
	}
	if len(rec.ResultJSON) == 0 {
		return nil, domain.WrapError(domain.ErrResultNotReady, "materialize result", errNoResultPayload)
	}

	resp, err := domain.DecodeInferenceResponse(rec.ResultJSON)
	if err != nil {
		slog.Error("result_payload_decode_error", "analysis_id", analysisID, "error", err)
		return nil, domain.WrapError(domain.ErrIncompleteResult, "decode result payload", err)
	}

	// An absent fusion block degrades to an unclassified view; the
	// recommendations, if any, are still served.
	fusion := extractFusion(resp)
	if !resp.HasFusion() {
		slog.Warn("fusion_block_missing", "analysis_id", analysisID)
	}

	info, known := uc.classification.Lookup(fusion.skinCode)
	if fusion.skinCode != "" && !known {
		slog.Warn("unknown_skin_code", "analysis_id", analysisID, "code", fusion.skinCode)
	}

	products, dropped := mapProducts(resp.Recommendations)
	noteDroppedProducts(uc.metrics, "materialize result", analysisID, dropped)

	view := &domain.ResultView{
		SkinCode:              fusion.skinCode,
		SkinDisplayName:       fusion.skinType,
		Headline:              info.Headline,
		SkinDescription:       info.Description,
		AllowedIngredients:    emptyIfNil(info.AllowedIngredients),
		AllowedRecommendation: info.AllowedRecommendation,
		BlockedIngredients:    emptyIfNil(info.BlockedIngredients),
		Axis:                  fusion.axis,
		Concerns:              fusion.concerns,
		Actions:               actionFlags(defaultActionDecision()),
		Recommendations:       products,
	}
	return view, nil
}

// actionDecision is the authorization input behind the action-flags map.
// Today every caller may retake, share and save; quota or plan tier can
// plug in here without touching the view shape.
type actionDecision struct {
	canRetake bool
	canShare  bool
	canSave   bool
}

func defaultActionDecision() actionDecision {
	return actionDecision{canRetake: true, canShare: true, canSave: true}
}

func actionFlags(d actionDecision) map[string]bool {
	return map[string]bool{
		"canRetake": d.canRetake,
		"canShare":  d.canShare,
		"canSave":   d.canSave,
	}
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
