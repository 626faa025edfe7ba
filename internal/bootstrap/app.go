package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adarshsingh05/paperly-backend/internal/billing"
	"github.com/adarshsingh05/paperly-backend/internal/documents"
	"github.com/adarshsingh05/paperly-backend/internal/invoices"
	"github.com/adarshsingh05/paperly-backend/internal/letters"
	"github.com/adarshsingh05/paperly-backend/internal/llm"
	openai "github.com/adarshsingh05/paperly-backend/internal/llm/openai"
	"github.com/adarshsingh05/paperly-backend/internal/mailer"
	"github.com/adarshsingh05/paperly-backend/internal/shared/config"
	"github.com/adarshsingh05/paperly-backend/internal/shared/server"
	"github.com/adarshsingh05/paperly-backend/internal/shared/storage/blob"
	"github.com/adarshsingh05/paperly-backend/internal/shared/storage/db"
	"github.com/adarshsingh05/paperly-backend/internal/users"
)

// App holds the wired dependency graph.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Blob   blob.Store

	UsersRepo     users.Repo
	DocumentsRepo documents.Repo
	InvoicesRepo  invoices.Repo
	BillingRepo   billing.Repo

	UsersService     *users.Service
	DocumentsService *documents.Service
	InvoicesService  *invoices.Service
	BillingService   *billing.Service
	LettersService   *letters.Service
	Mailer           *mailer.Mailer
	ReconcileJob     *billing.ReconcileJob
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg, db.DefaultServerOptions())
	if err != nil {
		return nil, err
	}

	store, err := buildBlobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB, Blob: store}
	app.buildRepos()
	if err := app.buildServices(); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		UsersHandler:     users.NewHandler(app.UsersService),
		DocumentsHandler: documents.NewHandler(app.DocumentsService, cfg.MaxUploadBytes),
		InvoicesHandler:  invoices.NewHandler(app.InvoicesService, cfg.MaxUploadBytes),
		BillingHandler:   billing.NewHandler(app.BillingService),
		LettersHandler:   letters.NewHandler(app.LettersService),
		BillingService:   app.BillingService,
	})
	return app, nil
}

// BuildWorker prepares only what the reconciliation worker needs.
func BuildWorker(cfg config.Config) (*App, error) {
	ctx := context.Background()
	sqlDB, err := buildDB(ctx, cfg, db.DefaultWorkerOptions())
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	app.buildRepos()
	app.ReconcileJob = billing.NewReconcileJob(app.UsersRepo, app.BillingRepo)
	return app, nil
}

func (a *App) buildRepos() {
	if a.DB != nil {
		a.UsersRepo = &users.PGRepo{DB: a.DB}
		a.DocumentsRepo = &documents.PGRepo{DB: a.DB}
		a.InvoicesRepo = &invoices.PGRepo{DB: a.DB}
		a.BillingRepo = &billing.PGRepo{DB: a.DB}
		return
	}
	a.UsersRepo = users.NewMemoryRepo()
	a.DocumentsRepo = documents.NewMemoryRepo()
	a.InvoicesRepo = invoices.NewMemoryRepo()
	a.BillingRepo = billing.NewMemoryRepo()
}

func (a *App) buildServices() error {
	cfg := a.Config

	if strings.TrimSpace(cfg.JWTSecret) == "" && !isDevLike(cfg.Env) {
		return errors.New("JWT_SECRET is required")
	}
	a.UsersService = users.NewService(a.UsersRepo, []byte(cfg.JWTSecret))

	a.DocumentsService = documents.NewService(a.DocumentsRepo, a.Blob)
	a.InvoicesService = invoices.NewService(a.InvoicesRepo, a.Blob)

	if cfg.SMTPHost != "" && cfg.SMTPFrom != "" {
		m, err := mailer.New(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			Timeout:  cfg.SMTPTimeout,
		})
		if err != nil {
			return fmt.Errorf("mailer: %w", err)
		}
		a.Mailer = m
		a.DocumentsService.Mailer = m
		a.InvoicesService.Mailer = m
	} else {
		log.Printf("bootstrap: SMTP not configured; outbound mail disabled")
	}

	gateway, err := buildGateway(cfg)
	if err != nil {
		return err
	}
	a.BillingService = billing.NewService(a.BillingRepo, gateway, []byte(cfg.RazorpayKeySecret))
	a.ReconcileJob = billing.NewReconcileJob(a.UsersRepo, a.BillingRepo)

	a.LettersService = letters.NewService(buildLLM(cfg))
	return nil
}

func buildDB(ctx context.Context, cfg config.Config, opts db.Options) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	sqlDB, err := db.GetSingleton(ctx, cfg.DatabaseURL, db.OptionsFromEnv(opts))
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildBlobStore(ctx context.Context, cfg config.Config) (blob.Store, error) {
	switch cfg.BlobStoreType {
	case "supabase":
		return blob.NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
	case "s3":
		return blob.NewS3(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return blob.NewLocal(cfg.LocalStoreDir), nil
	}
}

func buildGateway(cfg config.Config) (billing.Gateway, error) {
	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: razorpay not configured; billing orders will fail upstream")
			return unconfiguredGateway{}, nil
		}
		return nil, errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required")
	}
	return billing.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
}

func buildLLM(cfg config.Config) llm.Client {
	if cfg.LLMProvider == "openai" && cfg.OpenAIAPIKey != "" {
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
		if err == nil {
			return client
		}
		log.Printf("bootstrap: openai client unavailable: %v", err)
	}
	return llm.PlaceholderClient{}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

type unconfiguredGateway struct{}

func (unconfiguredGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (billing.Order, error) {
	return billing.Order{}, errors.New("payment gateway not configured")
}
