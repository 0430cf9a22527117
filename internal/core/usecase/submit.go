package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vegin/skin-analysis-service/internal/core/domain"
	"github.com/vegin/skin-analysis-service/internal/core/ports"
)

// SubmitAnalysisUseCase drives one submission end to end:
// upload image, insert PENDING record, call the inference service,
// settle the record to DONE or FAILED, return a minimal receipt.
type SubmitAnalysisUseCase struct {
	blobs     ports.BlobStore
	analyses  ports.AnalysisRepository
	inference ports.InferenceClient
	events    ports.EventPublisher
	metrics   ports.PipelineMetrics

	inferenceTimeout time.Duration
	now              func() time.Time
}

func NewSubmitAnalysisUseCase(
	blobs ports.BlobStore,
	analyses ports.AnalysisRepository,
	inference ports.InferenceClient,
	events ports.EventPublisher,
	inferenceTimeout time.Duration,
) *SubmitAnalysisUseCase {
	if inferenceTimeout <= 0 {
		inferenceTimeout = 60 * time.Second
	}
	return &SubmitAnalysisUseCase{
		blobs:            blobs,
		analyses:         analyses,
		inference:        inference,
		events:           events,
		inferenceTimeout: inferenceTimeout,
		now:              time.Now,
	}
}

func (uc *SubmitAnalysisUseCase) WithMetrics(m ports.PipelineMetrics) *SubmitAnalysisUseCase {
	uc.metrics = m
	return uc
}

func (uc *SubmitAnalysisUseCase) Submit(
	ctx context.Context,
	userID int64,
	image []byte,
	filename string,
	surveyJSON []byte,
) (*domain.Receipt, error) {
	if len(image) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit analysis", errors.New("image is empty"))
	}
	surveyJSON, err := normalizeSurvey(surveyJSON)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit analysis", err)
	}

	key := uc.generateKey(userID, filename)
	imageURL, err := uc.upload(ctx, key, filename, image)
	if err != nil {
		return nil, err
	}

	rec := &domain.AnalysisRecord{
		UserID:     userID,
		StorageKey: key,
		SurveyJSON: surveyJSON,
		Status:     domain.StatusPending,
		CreatedAt:  uc.now().UTC(),
	}
	id, err := uc.analyses.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("insert pending record: %w", err)
	}
	rec.ID = id
	slog.Info("analysis_pending", "analysis_id", id, "user_id", userID, "key", key)

	resp, err := uc.analyze(ctx, imageURL, surveyJSON)
	if err != nil {
		uc.markFailed(ctx, rec)
		return nil, err
	}

	resultJSON, err := json.Marshal(resp)
	if err != nil {
		uc.markFailed(ctx, rec)
		return nil, domain.WrapError(domain.ErrInferenceFailure, "serialize inference response", err)
	}

	done := *rec
	done.Status = domain.StatusDone
	done.ResultJSON = resultJSON
	settleCtx, settleCancel := settleContext(ctx)
	defer settleCancel()
	if err := uc.analyses.Update(settleCtx, &done); err != nil {
		return nil, fmt.Errorf("update record to done: %w", err)
	}
	slog.Info("analysis_done", "analysis_id", id, "user_id", userID)

	uc.publishCompleted(ctx, userID, id)

	return &domain.Receipt{AnalysisID: id, ImageURL: imageURL}, nil
}

// DirectAnalyze skips storage and persistence and sends the image bytes
// straight to the inference service. Development path only.
func (uc *SubmitAnalysisUseCase) DirectAnalyze(
	ctx context.Context,
	image []byte,
	filename, contentType string,
	surveyJSON []byte,
) (*domain.InferenceResponse, error) {
	if len(image) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "direct analyze", errors.New("image is empty"))
	}
	surveyJSON, err := normalizeSurvey(surveyJSON)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "direct analyze", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.inferenceTimeout)
	defer cancel()

	start := time.Now()
	resp, err := uc.inference.AnalyzeImageBytes(callCtx, filename, contentType, image, surveyJSON)
	uc.recordInference(err, time.Since(start))
	if err != nil {
		return nil, domain.WrapError(domain.ErrInferenceFailure, "direct analyze", err)
	}
	return resp, nil
}

func (uc *SubmitAnalysisUseCase) upload(ctx context.Context, key, filename string, image []byte) (string, error) {
	contentType := contentTypeForFilename(filename)
	if err := uc.blobs.Put(ctx, key, contentType, bytes.NewReader(image)); err != nil {
		return "", domain.WrapError(domain.ErrStorageFailure, "upload image", err)
	}
	exists, err := uc.blobs.Exists(ctx, key)
	if err != nil {
		return "", domain.WrapError(domain.ErrStorageFailure, "verify upload", err)
	}
	if !exists {
		return "", domain.WrapError(domain.ErrStorageFailure, "verify upload", errors.New("object missing after put"))
	}
	return uc.blobs.URLFor(key), nil
}

func (uc *SubmitAnalysisUseCase) analyze(ctx context.Context, imageURL string, surveyJSON []byte) (*domain.InferenceResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, uc.inferenceTimeout)
	defer cancel()

	start := time.Now()
	resp, err := uc.inference.AnalyzeImageURL(callCtx, imageURL, surveyJSON)
	uc.recordInference(err, time.Since(start))
	if err != nil {
		return nil, domain.WrapError(domain.ErrInferenceFailure, "call inference service", err)
	}
	return resp, nil
}

func (uc *SubmitAnalysisUseCase) recordInference(err error, elapsed time.Duration) {
	if uc.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	uc.metrics.RecordInference(outcome, elapsed)
}

// settleContext detaches a settle write from request cancellation. A
// client that disconnects mid-inference must not strand the record in
// PENDING.
func settleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
}

// markFailed settles the record when the inference call errors. Every
// record reaches a terminal state; readers never wait on a result that
// will not arrive.
func (uc *SubmitAnalysisUseCase) markFailed(ctx context.Context, rec *domain.AnalysisRecord) {
	settleCtx, cancel := settleContext(ctx)
	defer cancel()

	failed := *rec
	failed.Status = domain.StatusFailed
	if err := uc.analyses.Update(settleCtx, &failed); err != nil {
		slog.Error("mark_failed_error", "analysis_id", rec.ID, "error", err)
	}
}

func (uc *SubmitAnalysisUseCase) publishCompleted(ctx context.Context, userID, analysisID int64) {
	if uc.events == nil {
		return
	}
	if err := uc.events.PublishAnalysisCompleted(ctx, userID, analysisID); err != nil {
		slog.Warn("completion_event_publish_error", "analysis_id", analysisID, "error", err)
	}
}

// generateKey builds a per-call unique storage key:
// analysis/{userID}/{unixMillis}_{8-char-suffix}{ext}. The random suffix
// keeps concurrent submissions within one millisecond from colliding.
func (uc *SubmitAnalysisUseCase) generateKey(userID int64, filename string) string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("analysis/%d/%d_%s%s", userID, uc.now().UnixMilli(), suffix, filepath.Ext(filename))
}

func normalizeSurvey(surveyJSON []byte) ([]byte, error) {
	if len(bytes.TrimSpace(surveyJSON)) == 0 {
		return []byte("{}"), nil
	}
	if !json.Valid(surveyJSON) {
		return nil, errors.New("survey is not valid json")
	}
	return surveyJSON, nil
}

func contentTypeForFilename(filename string) string {
	switch filepath.Ext(filename) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
