package usecase

import (
	"log/slog"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
	"github.com/vegin/skin-analysis-service/internal/core/ports"
)

// fusionFields are the pieces of the fusion block the read views consume.
type fusionFields struct {
	skinCode string
	skinType string
	axis     map[string]any
	concerns map[string]any
}

func extractFusion(resp *domain.InferenceResponse) fusionFields {
	f := fusionFields{
		axis:     map[string]any{},
		concerns: map[string]any{},
	}
	if !resp.HasFusion() {
		return f
	}
	f.skinCode = domain.AsString(resp.Fusion["skin_mbti"])
	f.skinType = domain.AsString(resp.Fusion["skin_type"])
	if m := domain.AsMap(resp.Fusion["indices"]); m != nil {
		f.axis = m
	}
	if m := domain.AsMap(resp.Fusion["vision_raw"]); m != nil {
		f.concerns = m
	}
	return f
}

// mapProducts maps the raw recommendation entries. Numeric fields are
// only taken from numeric-typed source values; an entry whose
// identifying fields cannot be coerced is dropped, and the dropped count
// is the caller's only signal.
func mapProducts(raw []map[string]any) ([]domain.ProductView, int) {
	out := make([]domain.ProductView, 0, len(raw))
	dropped := 0
	for _, entry := range raw {
		product, ok := mapProduct(entry)
		if !ok {
			dropped++
			continue
		}
		out = append(out, product)
	}
	return out, dropped
}

func mapProduct(entry map[string]any) (domain.ProductView, bool) {
	if entry == nil {
		return domain.ProductView{}, false
	}

	p := domain.ProductView{
		ProductID:   domain.AsString(entry["productId"]),
		ProductName: domain.AsString(entry["productName"]),
		Brand:       domain.AsString(entry["brand"]),
		Ingredients: domain.AsStringList(entry["ingredients"]),
		Category:    domain.AsString(entry["category"]),
		ImageURL:    domain.AsString(entry["image_url"]),
	}
	if p.ProductID == "" {
		// Older payloads use snake_case for the identifier.
		p.ProductID = domain.AsString(entry["product_id"])
	}

	if v, present := entry["salePrice"]; present {
		n, ok := domain.AsInt(v)
		if !ok {
			return domain.ProductView{}, false
		}
		p.SalePrice = n
	}
	if v, present := entry["averageReviewScore"]; present {
		f, ok := domain.AsFloat(v)
		if !ok {
			return domain.ProductView{}, false
		}
		p.AverageReviewScore = f
	}
	if v, present := entry["totalReviewCount"]; present {
		n, ok := domain.AsInt(v)
		if !ok {
			return domain.ProductView{}, false
		}
		p.TotalReviewCount = n
	}
	if f, ok := domain.AsFloat(entry["score_es"]); ok {
		p.ScoreES = f
	}
	if f, ok := domain.AsFloat(entry["score_ltr"]); ok {
		p.ScoreLTR = f
	}

	p.Keywords = domain.AsStringList(entry["xai_keywords"])
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	// Front-end compatibility alias.
	p.Tags = p.Keywords

	return p, true
}

func noteDroppedProducts(m ports.PipelineMetrics, operation string, analysisID int64, dropped int) {
	if dropped == 0 {
		return
	}
	slog.Warn("recommendation_entries_dropped",
		"operation", operation,
		"analysis_id", analysisID,
		"dropped", dropped,
	)
	if m != nil {
		m.RecordDroppedProducts(dropped)
	}
}
