package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
)

type pipelineMetricsFake struct {
	mu                sync.Mutex
	inferenceOutcomes []string
	inferenceElapsed  []time.Duration
	dropped           int
	backfills         int
}

func (f *pipelineMetricsFake) RecordInference(outcome string, duration time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inferenceOutcomes = append(f.inferenceOutcomes, outcome)
	f.inferenceElapsed = append(f.inferenceElapsed, duration)
}

func (f *pipelineMetricsFake) RecordDroppedProducts(count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropped += count
}

func (f *pipelineMetricsFake) RecordSkinTypeBackfill() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.backfills++
}

type blobStoreFake struct {
	mu        sync.Mutex
	putKeys   []string
	putBodies map[string][]byte
	putErr    error
	existsErr error
	missing   bool
	baseURL   string
}

func newBlobStoreFake() *blobStoreFake {
	return &blobStoreFake{putBodies: map[string][]byte{}, baseURL: "https://cdn.test"}
}

func (f *blobStoreFake) Put(_ context.Context, key, _ string, data io.Reader) error {
	if f.putErr != nil {
		return f.putErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putKeys = append(f.putKeys, key)
	f.putBodies[key] = raw
	return nil
}

func (f *blobStoreFake) Exists(_ context.Context, key string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.missing {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.putBodies[key]
	return ok, nil
}

func (f *blobStoreFake) URLFor(key string) string {
	return f.baseURL + "/" + key
}

type analysisRepoFake struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]*domain.AnalysisRecord

	createErr error
	updateErr error

	// ctx.Err() observed at each Update call, in order.
	updateCtxErrs []error
}

func newAnalysisRepoFake() *analysisRepoFake {
	return &analysisRepoFake{records: map[int64]*domain.AnalysisRecord{}}
}

func (f *analysisRepoFake) Create(_ context.Context, rec *domain.AnalysisRecord) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	stored := *rec
	stored.ID = f.nextID
	f.records[stored.ID] = &stored
	return stored.ID, nil
}

func (f *analysisRepoFake) FindByIDAndUser(_ context.Context, id, userID int64) (*domain.AnalysisRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok || rec.UserID != userID {
		return nil, domain.WrapError(domain.ErrNotFound, "find analysis", errors.New("no such record"))
	}
	clone := *rec
	return &clone, nil
}

func (f *analysisRepoFake) FindAllByUser(_ context.Context, userID int64, limit int) ([]domain.AnalysisRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AnalysisRecord
	for id := f.nextID; id > 0 && len(out) < limit; id-- {
		rec, ok := f.records[id]
		if ok && rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *analysisRepoFake) Update(ctx context.Context, rec *domain.AnalysisRecord) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCtxErrs = append(f.updateCtxErrs, ctx.Err())
	current, ok := f.records[rec.ID]
	if !ok {
		return domain.WrapError(domain.ErrNotFound, "update analysis", errors.New("no such record"))
	}
	if !domain.CanTransition(current.Status, rec.Status) {
		return domain.WrapError(domain.ErrConflict, "update analysis", errors.New("illegal transition"))
	}
	stored := *rec
	stored.CreatedAt = current.CreatedAt
	f.records[rec.ID] = &stored
	return nil
}

type inferenceClientFake struct {
	resp *domain.InferenceResponse
	err  error

	// onCall runs at the start of every url-mode call; tests use it to
	// cancel the request context mid-inference.
	onCall func()

	lastImageURL string
	lastSurvey   []byte
	urlCalls     int
	byteCalls    int
}

func (f *inferenceClientFake) AnalyzeImageURL(_ context.Context, imageURL string, surveyJSON []byte) (*domain.InferenceResponse, error) {
	f.urlCalls++
	if f.onCall != nil {
		f.onCall()
	}
	f.lastImageURL = imageURL
	f.lastSurvey = surveyJSON
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *inferenceClientFake) AnalyzeImageBytes(_ context.Context, _, _ string, _, surveyJSON []byte) (*domain.InferenceResponse, error) {
	f.byteCalls++
	f.lastSurvey = surveyJSON
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type eventPublisherFake struct {
	published []int64
	err       error
}

func (f *eventPublisherFake) PublishAnalysisCompleted(_ context.Context, _, analysisID int64) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, analysisID)
	return nil
}

type profileRepoFake struct {
	profile *domain.Profile

	backfilled   []string
	upserted     *domain.Profile
	imageURL     string
	findErr      error
	upsertErr    error
	backfillErr  error
	setImageErr  error
}

func (f *profileRepoFake) FindByUser(_ context.Context, _ int64) (*domain.Profile, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.profile == nil {
		return nil, domain.WrapError(domain.ErrNotFound, "find profile", errors.New("no profile"))
	}
	clone := *f.profile
	return &clone, nil
}

func (f *profileRepoFake) Upsert(_ context.Context, profile *domain.Profile) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	clone := *profile
	f.upserted = &clone
	return nil
}

func (f *profileRepoFake) SetSkinTypeIfUnset(_ context.Context, _ int64, skinType string) error {
	if f.backfillErr != nil {
		return f.backfillErr
	}
	f.backfilled = append(f.backfilled, skinType)
	return nil
}

func (f *profileRepoFake) SetProfileImageURL(_ context.Context, _ int64, imageURL string) error {
	if f.setImageErr != nil {
		return f.setImageErr
	}
	f.imageURL = imageURL
	return nil
}

type recommendationRepoFake struct {
	batches []domain.RecommendationBatch
	err     error
}

func (f *recommendationRepoFake) FindByAnalysis(_ context.Context, _ int64) ([]domain.RecommendationBatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.batches, nil
}

type directoryFake struct {
	infos map[string]domain.ClassificationInfo
}

func (f *directoryFake) Lookup(code string) (domain.ClassificationInfo, bool) {
	info, ok := f.infos[code]
	return info, ok
}
