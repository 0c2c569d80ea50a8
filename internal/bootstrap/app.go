package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"hiring-backend/internal/evaluations"
	"hiring-backend/internal/identity"
	"hiring-backend/internal/llm"
	"hiring-backend/internal/llm/gemini"
	"hiring-backend/internal/llm/openai"
	"hiring-backend/internal/queue"
	"hiring-backend/internal/services/health"
	"hiring-backend/internal/shared/config"
	"hiring-backend/internal/shared/server"
	"hiring-backend/internal/shared/storage/db"
	"hiring-backend/internal/shared/storage/object"
	localstore "hiring-backend/internal/shared/storage/object/local"
	s3store "hiring-backend/internal/shared/storage/object/s3"
	"hiring-backend/internal/shared/telemetry"
	"hiring-backend/internal/thresholds"
)

// App holds shared dependencies.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	DB          *sql.DB
	Store       object.Store
	Queue       queue.Client
	Provider    llm.Provider
	Validator   *identity.GitHubValidator
	Thresholds  *thresholds.Service
	Evaluations *evaluations.Service
}

// Build prepares dependencies and the router. Optional collaborators that
// fail to initialize in dev fall back to in-process defaults.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app, err := BuildCore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		Health:            health.NewService(cfg.Env, cfg.LLMProvider, app.Validator != nil, app.DB),
		EvaluationHandler: evaluations.NewHandler(app.Evaluations),
		ThresholdsHandler: thresholds.NewHandler(app.Thresholds),
	})
	return app, nil
}

// BuildCore wires everything except HTTP. The CLI uses it directly.
func BuildCore(ctx context.Context, cfg config.Config) (*App, error) {
	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	thresholdSvc, err := buildThresholds(ctx, cfg, sqlDB)
	if err != nil {
		return nil, err
	}
	provider, err := buildProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	validator := identity.NewGitHubValidator(cfg.GitHubAPIURL, cfg.GitHubToken, cfg.ValidatorTimeout)

	app := &App{
		Config:     cfg,
		DB:         sqlDB,
		Store:      store,
		Queue:      queueClient,
		Provider:   provider,
		Validator:  validator,
		Thresholds: thresholdSvc,
		Evaluations: evaluations.NewService(evaluations.Deps{
			Provider:         provider,
			Validator:        validator,
			Profiles:         validator,
			Thresholds:       thresholdSvc,
			Events:           queueClient,
			Archive:          store,
			ProviderTimeout:  cfg.ProviderTimeout,
			ValidatorTimeout: cfg.ValidatorTimeout,
		}),
	}

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":           cfg.Env,
		"llm_provider":  cfg.LLMProvider,
		"llm_model":     cfg.LLMModel,
		"database":      sqlDB != nil,
		"report_store":  cfg.ReportStore,
		"verdict_queue": queueClient != nil,
		"thresholds":    thresholdSvc.Get(),
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		telemetry.Info("bootstrap.database_disabled", map[string]any{"reason": "DATABASE_URL empty; thresholds are kept in memory"})
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
	}
	if err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_fallback", map[string]any{"error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildThresholds(ctx context.Context, cfg config.Config, sqlDB *sql.DB) (*thresholds.Service, error) {
	initial := thresholds.Config{
		Level1:    cfg.Level1Threshold,
		Level2:    cfg.Level2Threshold,
		Level3:    cfg.Level3Threshold,
		Composite: cfg.CompositeThreshold,
	}
	var repo thresholds.Repo = thresholds.NewMemoryRepo()
	if sqlDB != nil {
		repo = &thresholds.PGRepo{DB: sqlDB}
	}
	svc := thresholds.NewService(initial, repo)
	if err := svc.Restore(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func buildProvider(ctx context.Context, cfg config.Config) (llm.Provider, error) {
	var (
		client llm.Client
		err    error
	)
	switch cfg.LLMProvider {
	case "openai":
		client, err = openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.OpenAIBaseURL, cfg.ProviderTimeout)
	case "gemini":
		client, err = gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
	default:
		telemetry.Warn("bootstrap.provider_placeholder", map[string]any{"reason": "LLM_PROVIDER not set; analysis calls will fail"})
		return llm.NewAnalyzer(llm.PlaceholderClient{}, "placeholder", ""), nil
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.provider_fallback", map[string]any{"provider": cfg.LLMProvider, "error": err})
			return llm.NewAnalyzer(llm.PlaceholderClient{}, "placeholder", ""), nil
		}
		return nil, fmt.Errorf("configure %s provider: %w", cfg.LLMProvider, err)
	}
	return llm.NewAnalyzer(llm.WithRetry(client), cfg.LLMProvider, cfg.LLMModel), nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ReportStore {
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "local":
		return localstore.New(cfg.LocalStoreDir), nil
	default:
		return nil, nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.VerdictQueueURL) == "" {
		return nil, nil
	}
	client, err := queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.VerdictQueueURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}
