package domain

// ClassificationInfo is static reference data keyed by the short skin
// code produced by the inference service (for example "DSPW"). Loaded
// once at process start and never mutated, so concurrent reads need no
// synchronization.
type ClassificationInfo struct {
	Code                  string   `json:"code" yaml:"code"`
	Headline              string   `json:"headline" yaml:"headline"`
	Description           string   `json:"description" yaml:"description"`
	AllowedIngredients    []string `json:"whiteListIngredients" yaml:"allow_ingredients"`
	AllowedRecommendation string   `json:"whiteListRecommendation" yaml:"allow_recommendation"`
	BlockedIngredients    []string `json:"blackListIngredients" yaml:"deny_ingredients"`
}
