package domain

import "time"

// ProductView is one recommended product mapped out of the loose
// inference payload. Fields missing or mistyped upstream come through as
// zero values; an entry that cannot be mapped at all is dropped.
type ProductView struct {
	ProductID          string   `json:"productId"`
	ProductName        string   `json:"productName"`
	Brand              string   `json:"brand,omitempty"`
	Ingredients        []string `json:"ingredients,omitempty"`
	SalePrice          int      `json:"salePrice,omitempty"`
	AverageReviewScore float64  `json:"averageReviewScore,omitempty"`
	TotalReviewCount   int      `json:"totalReviewCount,omitempty"`
	Category           string   `json:"category"`
	ScoreES            float64  `json:"score_es,omitempty"`
	ScoreLTR           float64  `json:"score_ltr,omitempty"`
	ImageURL           string   `json:"imageUrl"`
	Keywords           []string `json:"xaiKeywords"`
	Tags               []string `json:"tags"`
}

// ResultView is the enriched read model for one DONE analysis.
type ResultView struct {
	UserName              string          `json:"userName,omitempty"`
	SkinCode              string          `json:"skinMbtiType"`
	SkinDisplayName       string          `json:"skinDisplayName"`
	Headline              string          `json:"headline"`
	SkinDescription       string          `json:"skinDescription"`
	AllowedIngredients    []string        `json:"whiteListIngredients"`
	AllowedRecommendation string          `json:"whiteListRecommendation"`
	BlockedIngredients    []string        `json:"blackListIngredients"`
	Axis                  map[string]any  `json:"axis"`
	Concerns              map[string]any  `json:"concerns"`
	Actions               map[string]bool `json:"actions"`
	Recommendations       []ProductView   `json:"recommendations"`
}

// LastAnalysis summarizes the most recent DONE record on the profile page.
type LastAnalysis struct {
	AnalysisID      int64          `json:"analysisId"`
	SkinCode        string         `json:"mbti"`
	SkinType        string         `json:"skinType"`
	Date            time.Time      `json:"date"`
	Concerns        map[string]any `json:"concerns"`
	Recommendations []ProductView  `json:"recommendations"`
}

// HistoryEntry is one row of the paginated analysis history. Entries
// degrade independently: a decode failure leaves concerns and
// recommendations empty without touching the neighbors.
type HistoryEntry struct {
	AnalysisID      int64          `json:"analysisId"`
	ImageURL        string         `json:"imageUrl,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	Concerns        map[string]any `json:"concerns"`
	Recommendations []ProductView  `json:"recommendations"`
}

// RecommendationItem is a stored batch exposed on the profile page.
type RecommendationItem struct {
	ID         int64     `json:"id"`
	AnalysisID int64     `json:"analysisId"`
	Items      string    `json:"items"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ProfileView assembles the profile page: mutable profile fields plus
// read-optimized projections of the analysis history.
type ProfileView struct {
	ProfileImageURL string               `json:"profileImageUrl,omitempty"`
	SkinType        string               `json:"skinType,omitempty"`
	Concerns        []string             `json:"concerns"`
	LastAnalysis    *LastAnalysis        `json:"lastAnalysis,omitempty"`
	History         []HistoryEntry       `json:"history"`
	Recommendations []RecommendationItem `json:"recommendations"`
}
