package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
)

func newProfileViewUC(profiles *profileRepoFake, analyses *analysisRepoFake, recs *recommendationRepoFake, blobs *blobStoreFake) *ProfileViewUseCase {
	return NewProfileViewUseCase(profiles, analyses, recs, blobs, 10)
}

func TestBuildProfileViewWithoutProfileOrHistory(t *testing.T) {
	uc := newProfileViewUC(&profileRepoFake{}, newAnalysisRepoFake(), &recommendationRepoFake{}, newBlobStoreFake())

	view, err := uc.BuildProfileView(context.Background(), 4)
	if err != nil {
		t.Fatalf("BuildProfileView() error = %v", err)
	}
	if view.LastAnalysis != nil {
		t.Fatalf("expected no last analysis")
	}
	if view.SkinType != "" || view.ProfileImageURL != "" {
		t.Fatalf("expected all-default profile fields")
	}
	if view.Concerns == nil || view.History == nil || view.Recommendations == nil {
		t.Fatalf("collections must be empty, not nil")
	}
}

func TestBuildProfileViewLastAnalysisAndHistory(t *testing.T) {
	analyses := newAnalysisRepoFake()
	seedDoneRecord(t, analyses, 4, successResponse())
	latest := seedDoneRecord(t, analyses, 4, successResponse())

	profiles := &profileRepoFake{profile: &domain.Profile{
		UserID: 4, SkinType: "지성", Concerns: []string{"acne"}, ProfileImageURL: "https://cdn.test/me.jpg",
	}}
	recs := &recommendationRepoFake{batches: []domain.RecommendationBatch{{
		ID: 1, UserID: 4, AnalysisID: latest, ItemsJSON: []byte(`[{"rank":1}]`), CreatedAt: time.Now().UTC(),
	}}}

	view, err := newProfileViewUC(profiles, analyses, recs, newBlobStoreFake()).BuildProfileView(context.Background(), 4)
	if err != nil {
		t.Fatalf("BuildProfileView() error = %v", err)
	}
	if view.SkinType != "지성" {
		t.Fatalf("explicit skin type must win, got %s", view.SkinType)
	}
	if view.LastAnalysis == nil || view.LastAnalysis.AnalysisID != latest {
		t.Fatalf("expected last analysis for most recent record")
	}
	if view.LastAnalysis.SkinCode != "DSPW" {
		t.Fatalf("unexpected last analysis code %s", view.LastAnalysis.SkinCode)
	}
	if len(view.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(view.History))
	}
	if view.History[0].AnalysisID != latest {
		t.Fatalf("history must be most-recent-first")
	}
	if view.History[0].ImageURL == "" {
		t.Fatalf("history entries must resolve image urls from storage keys")
	}
	if len(view.Recommendations) != 1 || view.Recommendations[0].AnalysisID != latest {
		t.Fatalf("expected recommendation batch for latest analysis")
	}
	if len(profiles.backfilled) != 0 {
		t.Fatalf("no back-fill expected when skin type already set")
	}
}

func TestBuildProfileViewBackfillsSkinType(t *testing.T) {
	analyses := newAnalysisRepoFake()
	seedDoneRecord(t, analyses, 4, successResponse())
	profiles := &profileRepoFake{profile: &domain.Profile{UserID: 4}}

	view, err := newProfileViewUC(profiles, analyses, &recommendationRepoFake{}, newBlobStoreFake()).
		BuildProfileView(context.Background(), 4)
	if err != nil {
		t.Fatalf("BuildProfileView() error = %v", err)
	}
	if view.SkinType != "건성" {
		t.Fatalf("expected back-filled skin type, got %q", view.SkinType)
	}
	if len(profiles.backfilled) != 1 || profiles.backfilled[0] != "건성" {
		t.Fatalf("expected exactly one back-fill write, got %v", profiles.backfilled)
	}
}

func TestBuildProfileViewCountsBackfill(t *testing.T) {
	analyses := newAnalysisRepoFake()
	seedDoneRecord(t, analyses, 4, successResponse())
	rec := &pipelineMetricsFake{}

	uc := newProfileViewUC(&profileRepoFake{profile: &domain.Profile{UserID: 4}}, analyses, &recommendationRepoFake{}, newBlobStoreFake()).
		WithMetrics(rec)
	if _, err := uc.BuildProfileView(context.Background(), 4); err != nil {
		t.Fatalf("BuildProfileView() error = %v", err)
	}
	if rec.backfills != 1 {
		t.Fatalf("expected one back-fill counted, got %d", rec.backfills)
	}

	// A second read finds the skin type set and must not count again.
	set := &profileRepoFake{profile: &domain.Profile{UserID: 4, SkinType: "건성"}}
	uc2 := newProfileViewUC(set, analyses, &recommendationRepoFake{}, newBlobStoreFake()).WithMetrics(rec)
	if _, err := uc2.BuildProfileView(context.Background(), 4); err != nil {
		t.Fatalf("second BuildProfileView() error = %v", err)
	}
	if rec.backfills != 1 {
		t.Fatalf("back-fill counter moved on a read without a back-fill: %d", rec.backfills)
	}
}

func TestBuildProfileViewHistoryEntriesDegradeIndependently(t *testing.T) {
	analyses := newAnalysisRepoFake()
	// A broken payload in the middle of the history must not take down
	// decoding of the neighbors.
	goodOld := seedDoneRecord(t, analyses, 4, successResponse())
	brokenID, _ := analyses.Create(context.Background(), &domain.AnalysisRecord{
		UserID: 4, StorageKey: "analysis/4/broken.jpg", SurveyJSON: []byte(`{}`),
		Status: domain.StatusPending, CreatedAt: time.Now().UTC(),
	})
	broken, _ := analyses.FindByIDAndUser(context.Background(), brokenID, 4)
	broken.Status = domain.StatusDone
	broken.ResultJSON = []byte(`{not-json`)
	if err := analyses.Update(context.Background(), broken); err != nil {
		t.Fatalf("seed broken record: %v", err)
	}
	goodNew := seedDoneRecord(t, analyses, 4, successResponse())

	view, err := newProfileViewUC(&profileRepoFake{}, analyses, &recommendationRepoFake{}, newBlobStoreFake()).
		BuildProfileView(context.Background(), 4)
	if err != nil {
		t.Fatalf("BuildProfileView() error = %v", err)
	}
	if len(view.History) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(view.History))
	}
	byID := map[int64]domain.HistoryEntry{}
	for _, e := range view.History {
		byID[e.AnalysisID] = e
	}
	if len(byID[brokenID].Concerns) != 0 {
		t.Fatalf("broken entry must degrade to empty concerns")
	}
	for _, id := range []int64{goodOld, goodNew} {
		if byID[id].Concerns == nil {
			t.Fatalf("good entry %d lost its decode", id)
		}
	}
}

func TestBuildProfileViewLastAnalysisDecodeFailureOmitsSection(t *testing.T) {
	analyses := newAnalysisRepoFake()
	id, _ := analyses.Create(context.Background(), &domain.AnalysisRecord{
		UserID: 4, StorageKey: "analysis/4/x.jpg", SurveyJSON: []byte(`{}`),
		Status: domain.StatusPending, CreatedAt: time.Now().UTC(),
	})
	rec, _ := analyses.FindByIDAndUser(context.Background(), id, 4)
	rec.Status = domain.StatusDone
	rec.ResultJSON = []byte(`{broken`)
	if err := analyses.Update(context.Background(), rec); err != nil {
		t.Fatalf("seed: %v", err)
	}

	profiles := &profileRepoFake{}
	view, err := newProfileViewUC(profiles, analyses, &recommendationRepoFake{}, newBlobStoreFake()).
		BuildProfileView(context.Background(), 4)
	if err != nil {
		t.Fatalf("decode failure must not fail the view, got %v", err)
	}
	if view.LastAnalysis != nil {
		t.Fatalf("expected last analysis omitted on decode failure")
	}
	if len(view.History) != 1 {
		t.Fatalf("history must still be present")
	}
	if len(profiles.backfilled) != 0 {
		t.Fatalf("no back-fill without a decodable skin type")
	}
}

func TestBuildProfileViewRecommendationLookupBestEffort(t *testing.T) {
	analyses := newAnalysisRepoFake()
	seedDoneRecord(t, analyses, 4, successResponse())
	recs := &recommendationRepoFake{err: context.DeadlineExceeded}

	view, err := newProfileViewUC(&profileRepoFake{}, analyses, recs, newBlobStoreFake()).
		BuildProfileView(context.Background(), 4)
	if err != nil {
		t.Fatalf("batch lookup failure must not fail the view, got %v", err)
	}
	if len(view.Recommendations) != 0 {
		t.Fatalf("expected empty recommendations on lookup failure")
	}
}

func TestBuildProfileViewIsRepeatable(t *testing.T) {
	analyses := newAnalysisRepoFake()
	seedDoneRecord(t, analyses, 4, successResponse())
	profiles := &profileRepoFake{profile: &domain.Profile{UserID: 4, SkinType: "건성"}}
	uc := newProfileViewUC(profiles, analyses, &recommendationRepoFake{}, newBlobStoreFake())

	first, err := uc.BuildProfileView(context.Background(), 4)
	if err != nil {
		t.Fatalf("first view: %v", err)
	}
	second, err := uc.BuildProfileView(context.Background(), 4)
	if err != nil {
		t.Fatalf("second view: %v", err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("repeated profile reads differ")
	}
}
