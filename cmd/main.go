package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/filevault/filevault-server/internal/api/http/router"
	"github.com/filevault/filevault-server/internal/config"
	"github.com/filevault/filevault-server/internal/filecrypt"
	"github.com/filevault/filevault-server/internal/logger"
	"github.com/filevault/filevault-server/internal/model"
	"github.com/filevault/filevault-server/internal/password"
	"github.com/filevault/filevault-server/internal/repository/postgres"
	"github.com/filevault/filevault-server/internal/server"
	"github.com/filevault/filevault-server/internal/service"
	"github.com/filevault/filevault-server/internal/storage/local"
	miniostorage "github.com/filevault/filevault-server/internal/storage/minio"
	"github.com/filevault/filevault-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	auditRepo := postgres.NewAuditLogRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)

	blobStorage, err := newStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}

	cipher := filecrypt.NewCipher(cfg.Crypto.Secret)

	auditService := service.NewAudit(auditRepo, logger)
	authService := service.NewAuth(userRepo, password.NewHasher(), tokenManager, auditService, logger)
	fileService := service.NewFile(blobStorage, cipher, auditService, logger, cfg.Upload.MaxSizeBytes)

	r := router.New(authService, fileService, auditService, tokenManager, logger,
		cfg.CORS.AllowedOrigins, cfg.Upload.MaxSizeBytes)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newStorage(ctx context.Context, cfg *config.Config) (model.Storage, error) {
	switch cfg.Storage.Backend {
	case "minio":
		minioClient, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
			Secure: cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		return miniostorage.NewClient(ctx, minioClient, cfg.Minio.Bucket)
	case "local":
		return local.NewStore(cfg.Storage.Dir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
