package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"ritual-backend/internal/assistant"
	googleauth "ritual-backend/internal/auth"
	"ritual-backend/internal/content"
	"ritual-backend/internal/diagnostic"
	"ritual-backend/internal/leads"
	"ritual-backend/internal/llm"
	"ritual-backend/internal/llm/gemini"
	"ritual-backend/internal/llm/openai"
	"ritual-backend/internal/media"
	"ritual-backend/internal/queue"
	"ritual-backend/internal/rituals"
	"ritual-backend/internal/services/health"
	"ritual-backend/internal/shared/config"
	"ritual-backend/internal/shared/server"
	"ritual-backend/internal/shared/storage/db"
	"ritual-backend/internal/shared/storage/object"
	localstore "ritual-backend/internal/shared/storage/object/local"
	s3store "ritual-backend/internal/shared/storage/object/s3"
	"ritual-backend/internal/shared/telemetry"
	"ritual-backend/internal/users"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config     config.Config
	Router     *gin.Engine
	DB         *sql.DB
	Store      object.ObjectStore
	LLM        llm.Client
	Queue      queue.Client
	Diagnostic *diagnostic.Service
	Rituals    *rituals.Service
	Leads      *leads.Service
	Content    *content.Service
	Media      *media.Service
	Assistant  *assistant.Service
	Users      *users.Service
	GoogleAuth *googleauth.GoogleService
}

// Build prepares shared dependencies and wires routes. ctx bounds background
// work such as the seed file watcher.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    llmClient,
		Queue:  queueClient,
	}

	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		Health:            health.NewService(app.DB),
		DiagnosticHandler: diagnostic.NewHandler(app.Diagnostic),
		RitualHandler:     rituals.NewHandler(app.Rituals),
		LeadHandler:       leads.NewHandler(app.Leads),
		ContentHandler:    content.NewHandler(app.Content),
		MediaHandler:      media.NewHandler(app.Media),
		AssistantHandler:  assistant.NewHandler(app.Assistant),
		UserHandler:       users.NewHandler(app.Users),
		GoogleAuth:        app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	lambda := db.IsLambdaRuntime()
	if lambda {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	// Lambda deployments migrate through cmd/migrate.
	if !lambda {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	key := cfg.LLMAPIKey()
	if cfg.LLMProvider == "none" || cfg.LLMProvider == "" {
		return llm.PlaceholderClient{}, nil
	}
	if key == "" {
		telemetry.Warn("bootstrap.llm.placeholder", map[string]any{"provider": cfg.LLMProvider, "reason": "missing API key"})
		return llm.PlaceholderClient{}, nil
	}

	switch cfg.LLMProvider {
	case "openai":
		return openai.NewClient(key, cfg.LLMModel)
	case "gemini":
		return gemini.NewClient(ctx, key, cfg.LLMModel)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.LeadsQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.LeadsQueueURL)
}

func buildServices(ctx context.Context, app *App) error {
	var (
		diagRepo    diagnostic.ConfigRepo
		ritualRepo  rituals.Repo
		leadRepo    leads.Repo
		contentRepo content.Repo
		userRepo    users.Repo
	)

	if app.DB != nil {
		diagRepo = &diagnostic.PGRepo{DB: app.DB}
		ritualRepo = &rituals.PGRepo{DB: app.DB}
		leadRepo = &leads.PGRepo{DB: app.DB}
		contentRepo = &content.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		diagRepo = diagnostic.NewMemoryRepo()
		ritualRepo = rituals.NewMemoryRepo()
		leadRepo = leads.NewMemoryRepo()
		contentRepo = content.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	diagSvc := diagnostic.NewService(diagRepo, nil)
	if err := initDiagnostic(ctx, diagSvc, app.Config.DiagnosticSeedFile); err != nil {
		return err
	}

	ritualSvc := rituals.NewService(ritualRepo)
	userSvc := users.NewService(userRepo)
	assistantSvc := assistant.NewService(app.LLM, diagSvc)

	leadSvc := leads.NewService(leadRepo, ritualSvc)
	leadSvc.Queue = app.Queue
	leadSvc.Classifier = assistantSvc

	app.Diagnostic = diagSvc
	app.Rituals = ritualSvc
	app.Leads = leadSvc
	app.Content = content.NewService(contentRepo)
	app.Media = media.NewService(app.Store)
	app.Assistant = assistantSvc
	app.Users = userSvc
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.Config.AdminEmails,
		userSvc,
	)
	return nil
}

// initDiagnostic layers defaults, the optional seed file, then the stored
// override. Only an unreadable or invalid seed file fails startup.
func initDiagnostic(ctx context.Context, svc *diagnostic.Service, seedPath string) error {
	if seedPath = strings.TrimSpace(seedPath); seedPath != "" {
		tables, err := diagnostic.LoadSeedFile(seedPath)
		if err != nil {
			return fmt.Errorf("diagnostic seed: %w", err)
		}
		if err := svc.Apply(tables); err != nil {
			return fmt.Errorf("diagnostic seed: %w", err)
		}
		telemetry.Info("diagnostic.seed.applied", map[string]any{"path": seedPath})
		reapply := func(tables diagnostic.Tables) error {
			return svc.ApplySeed(ctx, tables)
		}
		if err := diagnostic.WatchSeedFile(ctx, seedPath, reapply); err != nil {
			telemetry.Warn("diagnostic.seed.watch_disabled", map[string]any{"path": seedPath, "error": err.Error()})
		}
	}

	if _, err := svc.LoadConfig(ctx); err != nil && !errors.Is(err, diagnostic.ErrNotFound) {
		telemetry.Warn("diagnostic.config.startup_fallback", map[string]any{"error": err.Error()})
	}
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
