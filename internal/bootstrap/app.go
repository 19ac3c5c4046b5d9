package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"sim-backend/internal/account"
	"sim-backend/internal/analyses"
	googleauth "sim-backend/internal/auth"
	"sim-backend/internal/fixtures"
	"sim-backend/internal/initiatives"
	"sim-backend/internal/members"
	"sim-backend/internal/organizations"
	"sim-backend/internal/queue"
	"sim-backend/internal/services/health"
	"sim-backend/internal/shared/config"
	"sim-backend/internal/shared/server"
	"sim-backend/internal/shared/storage/db"
	"sim-backend/internal/shared/storage/object"
	localstore "sim-backend/internal/shared/storage/object/local"
	s3store "sim-backend/internal/shared/storage/object/s3"
	"sim-backend/internal/sim"
	"sim-backend/internal/uploads"
	"sim-backend/internal/usage"
)

const defaultRegion = "us-east-1"

// App holds shared dependencies and the HTTP router.
type App struct {
	Config               config.Config
	Router               *gin.Engine
	DB                   *sql.DB
	Store                object.ObjectStore
	Queue                queue.Client
	Engine               *sim.Engine
	OrganizationsService *organizations.Service
	InitiativesService   *initiatives.Service
	AnalysesService      *analyses.Service
	UsageService         *usage.Service
	MembersService       *members.Service
	AccountService       *account.Service
	UploadsService       *uploads.Service
	GoogleAuth           *googleauth.GoogleService
}

// Build prepares dependencies and wires routes. Without a database in a
// dev-like environment it falls back to in-memory repositories seeded with
// the demo portfolio.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if cfg.AnalysisLimit <= 0 {
		cfg.AnalysisLimit = config.DefaultAnalysisLimit
	}
	if cfg.QuadrantThreshold == 0 {
		cfg.QuadrantThreshold = config.DefaultQuadrantThreshold
	}
	ctx := context.Background()

	engine, err := sim.NewEngine(cfg.QuadrantThreshold, nil)
	if err != nil {
		return nil, fmt.Errorf("quadrant threshold: %w", err)
	}

	sqlDB, err := buildDB(ctx, cfg)
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

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
		Engine: engine,
	}
	buildServices(app)

	if sqlDB == nil {
		if err := seedDemo(ctx, app, fixtures.Demo()); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              cfg,
		Health:              health.NewService(sqlDB),
		OrganizationHandler: organizations.NewHandler(app.OrganizationsService),
		InitiativeHandler:   initiatives.NewHandler(app.InitiativesService),
		AnalysisHandler:     analyses.NewHandler(app.AnalysesService),
		UsageHandler:        usage.NewHandler(app.UsageService),
		MemberHandler:       members.NewHandler(app.MembersService),
		AccountHandler:      account.NewHandler(app.AccountService),
		UploadHandler:       uploads.NewHandler(app.UploadsService),
		GoogleAuth:          app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, regionOrDefault(cfg.AWSRegion), cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if cfg.SQSQueueURL == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, regionOrDefault(cfg.AWSRegion), cfg.SQSQueueURL)
}

func regionOrDefault(region string) string {
	if strings.TrimSpace(region) == "" {
		return defaultRegion
	}
	return region
}

func buildServices(app *App) {
	var (
		orgRepo     organizations.Repo
		initRepo    initiatives.Repo
		analysisRep analyses.Repo
		memberRepo  members.Repo
		usageSvc    *usage.Service
	)

	if app.DB != nil {
		orgRepo = &organizations.PGRepo{DB: app.DB}
		initRepo = &initiatives.PGRepo{DB: app.DB}
		analysisRep = &analyses.PGRepo{DB: app.DB}
		memberRepo = &members.PGRepo{DB: app.DB}
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB, app.Config.AnalysisLimit))
	} else {
		orgRepo = organizations.NewMemoryRepo()
		initRepo = initiatives.NewMemoryRepo()
		analysisRep = analyses.NewMemoryRepo()
		memberRepo = members.NewMemoryRepo()
		usageSvc = usage.NewService(app.Config.AnalysisLimit)
	}

	orgSvc := organizations.NewService(orgRepo)
	// Postgres cascades initiative rows through the foreign key.
	if mem, ok := initRepo.(*initiatives.MemoryRepo); ok {
		orgSvc.OnDelete = mem.DeleteByOrganization
	}
	initSvc := initiatives.NewService(initRepo, orgSvc, app.Engine)

	analysisSvc := &analyses.Service{
		Repo:        analysisRep,
		Orgs:        orgSvc,
		Initiatives: initSvc,
		Usage:       usageSvc,
		Store:       app.Store,
		Queue:       app.Queue,
		Engine:      app.Engine,
	}

	memberSvc := members.NewService(memberRepo, orgSvc)

	app.OrganizationsService = orgSvc
	app.InitiativesService = initSvc
	app.AnalysesService = analysisSvc
	app.UsageService = usageSvc
	app.MembersService = memberSvc
	app.AccountService = account.NewService(analysisRep)
	app.UploadsService = &uploads.Service{Orgs: orgSvc, Initiatives: initSvc, Store: app.Store}
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		memberSvc,
	)
}

func seedDemo(ctx context.Context, app *App, data fixtures.Provider) error {
	for _, profile := range data.Organizations() {
		if _, err := app.OrganizationsService.Import(ctx, profile); err != nil {
			return fmt.Errorf("organization %s: %w", profile.ID, err)
		}
	}
	for _, record := range data.Initiatives("") {
		if _, err := app.InitiativesService.Import(ctx, record); err != nil {
			return fmt.Errorf("initiative %s: %w", record.ID, err)
		}
	}
	return nil
}
