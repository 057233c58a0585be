package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/mindvault/curator/internal/application"
	appbatch "github.com/mindvault/curator/internal/application/batch"
	"github.com/mindvault/curator/internal/application/classify"
	appingest "github.com/mindvault/curator/internal/application/ingest"
	"github.com/mindvault/curator/internal/config"
	"github.com/mindvault/curator/internal/domain/taxonomy"
	openaiClient "github.com/mindvault/curator/internal/infra/ai/openai"
	mysqlp "github.com/mindvault/curator/internal/infra/db/mysql"
	postgresp "github.com/mindvault/curator/internal/infra/db/postgres"
	"github.com/mindvault/curator/internal/infra/extract"
	"github.com/mindvault/curator/internal/infra/httpserver"
	blobstore "github.com/mindvault/curator/internal/infra/storage"
	"github.com/mindvault/curator/internal/infra/video/youtube"
	"github.com/mindvault/curator/internal/middleware"

	"github.com/mindvault/curator/internal/domain/audit"
	domain "github.com/mindvault/curator/internal/domain/items"
)

// ledgerRepos pasangan repo per driver
type ledgerRepos struct {
	items domain.Repository
	logs  audit.Repository
}

func main() {
	// .env opsional; env vars menang atas config.yaml
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database (mysql default, postgres opsional)
	var db *sql.DB
	var ledger ledgerRepos
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		ledger = ledgerRepos{items: postgresp.NewItemRepository(db), logs: postgresp.NewLogRepository(db)}
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		ledger = ledgerRepos{items: mysqlp.NewItemRepository(db), logs: mysqlp.NewLogRepository(db)}
	}
	defer db.Close()

	// blob storage: backend dipilih sekali di startup
	local, err := blobstore.NewLocal(cfg.Storage.LocalDir)
	if err != nil {
		log.Fatalf("local storage init error: %v", err)
	}
	var remote domain.BlobStore
	if cfg.RemoteStorageConfigured() {
		r, err := blobstore.NewRemote(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
			cfg.Minio.Owner,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		remote = r
		log.Printf("storage backend: remote (bucket=%s)", cfg.Minio.BucketName)
	} else {
		log.Printf("storage backend: local (%s)", cfg.Storage.LocalDir)
	}
	gateway := blobstore.NewGateway(remote, local)

	tax := taxonomy.Default()

	if !cfg.AIConfigured() {
		log.Printf("warning: no OpenAI API key configured; items will be parked as needs_api_key")
	}

	classifier := &classify.Service{
		Items: ledger.items,
		Logs:  ledger.logs,
		AI:    openaiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model),
		Tax:   tax,
		Clock: application.SystemClock{},
	}

	ingestSvc := &appingest.Service{
		Items:      ledger.items,
		Logs:       ledger.logs,
		Blobs:      gateway,
		Videos:     youtube.NewClient(cfg.YouTube.APIKey),
		Extractor:  extract.New(cfg.Extract.MaxChars),
		Classifier: classifier,
		Tax:        tax,
		Clock:      application.SystemClock{},
	}

	batchSvc, err := appbatch.NewService(ingestSvc.Videos, ingestSvc, 4)
	if err != nil {
		log.Fatalf("batch service init error: %v", err)
	}
	defer batchSvc.Release()

	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.RateLimitMiddleware(60, 10))
	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
		"storage": middleware.CheckerFunc(func(ctx context.Context) error {
			_, err := os.Stat(cfg.Storage.LocalDir)
			return err
		}),
	}))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Mount("/", httpserver.NewRouter(ingestSvc, batchSvc, tax))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	// drain in-flight playlist batches
	batchSvc.Wait()
}
