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

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	goredis "github.com/redis/go-redis/v9"

	grpcServer "github.com/dtroode/pushlogin/internal/api/grpc/server"
	"github.com/dtroode/pushlogin/internal/api/http/handler"
	"github.com/dtroode/pushlogin/internal/api/http/router"
	"github.com/dtroode/pushlogin/internal/config"
	"github.com/dtroode/pushlogin/internal/logger"
	"github.com/dtroode/pushlogin/internal/model"
	"github.com/dtroode/pushlogin/internal/remote"
	"github.com/dtroode/pushlogin/internal/repository/postgres"
	"github.com/dtroode/pushlogin/internal/repository/redis"
	"github.com/dtroode/pushlogin/internal/server"
	"github.com/dtroode/pushlogin/internal/service"
	"github.com/dtroode/pushlogin/internal/storage/file"
	storage "github.com/dtroode/pushlogin/internal/storage/minio"
	"github.com/dtroode/pushlogin/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize credential backend", "backend", cfg.Credential.Backend, "error", err)
	}
	defer closeBackend()

	identity := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.APIKey, cfg.Remote.RequestTimeout)

	store := service.NewCredentialStore(backend, cfg.Credential.TTL, logger)
	gate := service.NewGate(store, logger)
	initiator := service.NewInitiator(identity, cfg.Session.Lifetime, logger)
	watcher := service.NewWatcher(identity, service.WatcherOptions{
		Interval:       cfg.Session.PollInterval,
		RequestTimeout: cfg.Remote.RequestTimeout,
		RetryOnFailure: cfg.Session.PollFailurePolicy == config.PollFailureRetry,
	}, logger)
	login := service.NewLogin(initiator, watcher, store, identity, gate, token.NewInspector(), service.LoginOptions{
		DisplayDelay: cfg.Session.DisplayDelay,
		Retention:    cfg.Session.Retention,
	}, logger)

	engine := router.New(handler.NewLogin(login, gate, logger), gate, logger)
	httpServer := server.NewHTTPServer(engine, fmt.Sprintf(":%s", cfg.HTTP.Port))
	healthServer := grpcServer.NewGRPCServer(fmt.Sprintf(":%s", cfg.GRPC.Port), logger)

	httpLayer := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	plainLayer := server.NewPlainListener()

	var wg sync.WaitGroup
	start := func(s model.Server, sl model.SecurityLayer) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "address", s.Address(), "error", err)
				stop()
			}
		}()
	}
	start(httpServer, httpLayer)
	start(healthServer, plainLayer)
	healthServer.SetServing(true)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")
	healthServer.SetServing(false)

	login.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, s := range []model.Server{httpServer, healthServer} {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// openBackend builds the record store selected by CREDENTIAL_BACKEND.
func openBackend(ctx context.Context, cfg *config.Config) (model.RecordStore, func(), error) {
	noop := func() {}

	switch cfg.Credential.Backend {
	case config.BackendPostgres:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
		if err != nil {
			return nil, noop, err
		}
		return postgres.NewCredentialRepository(db, cfg.Credential.Key), func() { _ = db.Close() }, nil

	case config.BackendRedis:
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		repo := redis.NewCredentialRepository(rdb, cfg.Credential.Key, cfg.Credential.TTL)
		if err := repo.Ping(ctx); err != nil {
			_ = rdb.Close()
			return nil, noop, fmt.Errorf("failed to reach redis: %w", err)
		}
		return repo, func() { _ = rdb.Close() }, nil

	case config.BackendMinio:
		minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
			Secure: cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create minio client: %w", err)
		}
		client, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Credential.Key)
		if err != nil {
			return nil, noop, err
		}
		return client, noop, nil

	default:
		store, err := file.NewStore(cfg.Credential.FilePath)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
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
