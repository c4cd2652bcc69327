package bootstrap

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"pulse-backend/internal/datasets"
	"pulse-backend/internal/insights"
	"pulse-backend/internal/kpi"
	"pulse-backend/internal/shared/config"
	"pulse-backend/internal/shared/server"
	"pulse-backend/internal/shared/storage/object"
	localstore "pulse-backend/internal/shared/storage/object/local"
	s3store "pulse-backend/internal/shared/storage/object/s3"
	"pulse-backend/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	Store           object.ObjectStore
	Datasets        *datasets.Store
	InsightEngine   *insights.Engine
	KPIService      *kpi.Service
	DatasetsHandler *datasets.Handler
	InsightsHandler *insights.Handler
	KPIHandler      *kpi.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.DatasetStore) == "" {
		cfg.DatasetStore = "local"
	}
	ctx := context.Background()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	datasetStore := datasets.NewStore(datasets.NewLoader(store))
	// Warm the dataset cache up front. A failure is logged but not fatal:
	// requests surface data_unavailable until the files are fixed.
	if err := datasetStore.Warm(ctx); err != nil {
		telemetry.Warn("bootstrap.warm_failed", map[string]any{"error": err.Error()})
	}

	engine := insights.NewEngine(datasetStore, cfg.InsightCacheTTL)
	kpiSvc := kpi.NewService(datasetStore)

	app := &App{
		Config:          cfg,
		Store:           store,
		Datasets:        datasetStore,
		InsightEngine:   engine,
		KPIService:      kpiSvc,
		DatasetsHandler: datasets.NewHandler(datasetStore),
		InsightsHandler: insights.NewHandler(engine, datasetStore),
		KPIHandler:      kpi.NewHandler(kpiSvc, datasetStore),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DatasetsHandler: app.DatasetsHandler,
		InsightsHandler: app.InsightsHandler,
		KPIHandler:      app.KPIHandler,
	})

	return app, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.DatasetStore {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.DataDir), nil
	}
}
