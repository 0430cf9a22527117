package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/vegin/skin-analysis-service/internal/config"
	"github.com/vegin/skin-analysis-service/internal/core/ports"
	"github.com/vegin/skin-analysis-service/internal/core/usecase"
	natsevents "github.com/vegin/skin-analysis-service/internal/infrastructure/events/nats"
	"github.com/vegin/skin-analysis-service/internal/infrastructure/inference/fusion"
	"github.com/vegin/skin-analysis-service/internal/infrastructure/refdata"
	"github.com/vegin/skin-analysis-service/internal/infrastructure/repository/postgres"
	"github.com/vegin/skin-analysis-service/internal/infrastructure/resilience"
	"github.com/vegin/skin-analysis-service/internal/infrastructure/storage/localfs"
	s3storage "github.com/vegin/skin-analysis-service/internal/infrastructure/storage/s3"
	"github.com/vegin/skin-analysis-service/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Metrics *metrics.HTTPServerMetrics

	SubmitUC  ports.AnalysisSubmitter
	ResultUC  ports.ResultMaterializer
	ProfileUC ports.ProfileProjector
	EditorUC  ports.ProfileEditor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	analyses := postgres.NewAnalysisRepository(db)
	profiles := postgres.NewProfileRepository(db)
	recommendations := postgres.NewRecommendationRepository(db)

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	directory, err := refdata.Load(cfg.ClassificationTablePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load classification table: %w", err)
	}

	inference := fusion.New(cfg.InferenceURL)

	var events ports.EventPublisher
	closeFn := func() { _ = db.Close() }
	if cfg.NATSEnabled {
		publisher, err := natsevents.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsevents.Options{
			ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init event publisher: %w", err)
		}
		events = publisher
		closeFn = func() {
			publisher.Close()
			_ = db.Close()
		}
	}

	inferenceTimeout := time.Duration(cfg.InferenceTimeoutSeconds) * time.Second

	const service = "skin-analysis-api"
	m := metrics.NewHTTPServerMetrics(service)
	pipeline := m.Pipeline(service)

	return &App{
		Config:  cfg,
		Metrics: m,

		SubmitUC:  usecase.NewSubmitAnalysisUseCase(blobs, analyses, inference, events, inferenceTimeout).WithMetrics(pipeline),
		ResultUC:  usecase.NewMaterializeResultUseCase(analyses, directory).WithMetrics(pipeline),
		ProfileUC: usecase.NewProfileViewUseCase(profiles, analyses, recommendations, blobs, cfg.ProfileHistoryLimit).WithMetrics(pipeline),
		EditorUC:  usecase.NewUpdateProfileUseCase(profiles, blobs),

		closeFn: closeFn,
	}, nil
}

func newBlobStore(ctx context.Context, cfg config.Config) (ports.BlobStore, error) {
	switch cfg.StorageBackend {
	case "s3":
		store, err := s3storage.New(ctx, s3storage.Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			CDNBaseURL: cfg.S3CDNBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		return store, nil
	case "local", "":
		store, err := localfs.New(cfg.StoragePath, cfg.StorageBaseURL)
		if err != nil {
			return nil, fmt.Errorf("init local storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
