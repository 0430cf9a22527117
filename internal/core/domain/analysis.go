package domain

import (
	"encoding/json"
	"time"
)

type AnalysisStatus string

const (
	StatusPending AnalysisStatus = "PENDING"
	StatusDone    AnalysisStatus = "DONE"
	StatusFailed  AnalysisStatus = "FAILED"
)

// CanTransition is the closed transition table for an analysis record.
// A record only ever moves forward out of PENDING.
func CanTransition(from, to AnalysisStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusDone || to == StatusFailed
	default:
		return false
	}
}

func (s AnalysisStatus) Valid() bool {
	switch s {
	case StatusPending, StatusDone, StatusFailed:
		return true
	default:
		return false
	}
}

// AnalysisRecord is one durable analysis attempt. SurveyJSON is stored
// verbatim; ResultJSON is nil until the record reaches DONE.
type AnalysisRecord struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	StorageKey string          `json:"storage_key"`
	SurveyJSON json.RawMessage `json:"survey"`
	Status     AnalysisStatus  `json:"status"`
	ResultJSON json.RawMessage `json:"result,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Receipt is the minimal response returned right after submission.
type Receipt struct {
	AnalysisID int64  `json:"analysisId"`
	ImageURL   string `json:"imageUrl"`
}

// RecommendationBatch is a denormalized item list tied to one analysis.
type RecommendationBatch struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	AnalysisID int64           `json:"analysis_id"`
	ItemsJSON  json.RawMessage `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
}
