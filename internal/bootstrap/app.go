package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "verifyzen/internal/auth"
	"verifyzen/internal/candidates"
	"verifyzen/internal/queue"
	"verifyzen/internal/registry"
	"verifyzen/internal/reports"
	"verifyzen/internal/services/health"
	"verifyzen/internal/shared/config"
	"verifyzen/internal/shared/server"
	"verifyzen/internal/shared/storage/db"
	"verifyzen/internal/shared/storage/object"
	localstore "verifyzen/internal/shared/storage/object/local"
	s3store "verifyzen/internal/shared/storage/object/s3"
	"verifyzen/internal/timeline"
	"verifyzen/internal/users"
	"verifyzen/internal/verifications"
)

// App holds the shared dependencies behind the API and worker binaries.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	UsersRepo         users.Repo
	CandidatesRepo    candidates.Repo
	VerificationsRepo verifications.Repo

	UsersService         *users.Service
	CandidatesService    *candidates.Service
	VerificationsService *verifications.Service
	ReportsService       *reports.Service

	UsersHandler        *users.Handler
	CandidatesHandler   *candidates.Handler
	VerificationHandler *verifications.Handler
	ReportsHandler      *reports.Handler
	GoogleAuth          *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              app.Config,
		Health:              health.NewService(app.DB),
		UsersHandler:        app.UsersHandler,
		CandidatesHandler:   app.CandidatesHandler,
		VerificationHandler: app.VerificationHandler,
		ReportsHandler:      app.ReportsHandler,
		GoogleAuth:          app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("VZ_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	var (
		userRepo users.Repo
		candRepo candidates.Repo
		verRepo  verifications.Repo
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		candRepo = &candidates.PGRepo{DB: app.DB}
		verRepo = &verifications.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		candRepo = candidates.NewMemoryRepo()
		verRepo = verifications.NewMemoryRepo()
	}

	userSvc := users.NewService(userRepo)
	candSvc := candidates.NewService(candRepo, app.Store)
	verSvc := &verifications.Service{
		Repo:       verRepo,
		Candidates: candRepo,
		Company:    registry.NewStubCompanyVerifier(),
		Education:  registry.NewStubEducationVerifier(),
		Analyzer:   timeline.NewAnalyzer(),
		Queue:      app.Queue,
	}
	reportsSvc := reports.NewService(verRepo, candRepo, app.Store)

	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.UsersRepo = userRepo
	app.CandidatesRepo = candRepo
	app.VerificationsRepo = verRepo
	app.UsersService = userSvc
	app.CandidatesService = candSvc
	app.VerificationsService = verSvc
	app.ReportsService = reportsSvc
	app.UsersHandler = users.NewHandler(userSvc)
	app.CandidatesHandler = candidates.NewHandler(candSvc)
	app.VerificationHandler = verifications.NewHandler(verSvc)
	app.ReportsHandler = reports.NewHandler(reportsSvc)
	app.GoogleAuth = googleAuthSvc
}
