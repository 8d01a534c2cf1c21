package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sumeshhesums/ml-deployment-platform/internal/app/server"
	"github.com/sumeshhesums/ml-deployment-platform/internal/config"
	"github.com/sumeshhesums/ml-deployment-platform/internal/delivery/http"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service/admin"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service/audit"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service/auth"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service/predict"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service/registry"
	"github.com/sumeshhesums/ml-deployment-platform/internal/storage/elastic"
	"github.com/sumeshhesums/ml-deployment-platform/internal/storage/minio_storage"
	"github.com/sumeshhesums/ml-deployment-platform/internal/storage/postgres"
	"github.com/sumeshhesums/ml-deployment-platform/internal/storage/rediscache"
	"github.com/sumeshhesums/ml-deployment-platform/pkg/logger"
)

func Run(cfg *config.Config) {

	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	ctx := context.Background()

	if err := postgres.RunMigrations(ctx, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName); err != nil {
		log.FatalErr("error running migrations", err)
	}

	pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()

	userRepo := postgres.NewUserPostgres(pg.Pool)
	modelRepo := postgres.NewModelPostgres(pg.Pool)
	predictionRepo := postgres.NewPredictionPostgres(pg.Pool)
	auditRepo := postgres.NewAuditPostgres(pg.Pool)

	minioClient, err := minio_storage.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.FatalErr("error connecting to minio", err)
	}
	artifacts, err := minio_storage.NewArtifactStorage(minioClient, cfg.Minio.ArtifactBucket, cfg.Minio.PresignTTL)
	if err != nil {
		log.FatalErr("error preparing artifact bucket", err)
	}

	esClient, err := elastic.NewElasticClient(cfg.ES.Password, cfg.ES.Hosts)
	if err != nil {
		log.FatalErr("error connecting to elasticsearch", err)
	}
	searchRepo := elastic.NewModelSearchRepository(esClient, cfg.ES.Index)
	if err := searchRepo.CreateIndexIfNotExist(ctx); err != nil {
		log.FatalErr("error creating search index", err)
	}

	statsCache := rediscache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.StatsTTL)
	defer statsCache.Close()
	if err := statsCache.Ping(ctx); err != nil {
		// Stats endpoints fall back to direct queries without the cache.
		log.ErrorErr("redis unavailable, continuing without stats cache", err)
	}

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	u := service.Collection{
		AuthService:     auth.NewAuthService(log, jwtManager, userRepo),
		RegistryService: registry.NewRegistryService(log, modelRepo, predictionRepo, artifacts, searchRepo, cfg.Upload.MaxSize),
		PredictService:  predict.NewPredictService(log, modelRepo, predictionRepo, artifacts),
		AdminService:    admin.NewAdminService(log, userRepo, modelRepo, predictionRepo, auditRepo, statsCache),
		Audit:           audit.NewRecorder(log, auditRepo),
	}

	r := http.InitRoutes(log, cfg, u)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("server error", err)
	}
	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("server shutdown error", err)
	}
}
