package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/pagemill/pagemill/internal/config"
	"github.com/pagemill/pagemill/internal/db"
	"github.com/pagemill/pagemill/internal/filestore"
	"github.com/pagemill/pagemill/internal/handler"
	"github.com/pagemill/pagemill/internal/job"
	"github.com/pagemill/pagemill/internal/middleware"
	"github.com/pagemill/pagemill/internal/repo"
	"github.com/pagemill/pagemill/internal/schedule"
	"github.com/pagemill/pagemill/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "pagemill",
		Short: "pagemill content versioning server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run pagemill server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			database, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(database); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, database)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, database *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
	)

	collectionRepo := repo.NewCollectionRepo(database)
	contentRepo := repo.NewContentRepo(database)
	versionRepo := repo.NewVersionRepo(database)
	releaseRepo := repo.NewReleaseRepo(database)
	lockRepo := repo.NewLockRepo(database)

	releaseService := service.NewReleaseService(releaseRepo, collectionRepo, contentRepo, versionRepo,
		cfg.ReleaseCache.Size, time.Duration(cfg.ReleaseCache.TTLSeconds)*time.Second)
	contentService := service.NewContentService(contentRepo, versionRepo, collectionRepo, lockRepo, releaseService)
	collectionService := service.NewCollectionService(collectionRepo)
	lockService := service.NewLockService(lockRepo, int64(cfg.LockTTLSeconds))

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	exportService := service.NewExportService(releaseService, store)

	deps := handler.RouterDeps{
		Collections: handler.NewCollectionHandler(collectionService),
		Contents:    handler.NewContentHandler(contentService),
		Versions:    handler.NewVersionHandler(contentService, cfg.HistoryPageSize),
		Releases:    handler.NewReleaseHandler(releaseService),
		Locks:       handler.NewLockHandler(lockService),
		Export:      handler.NewExportHandler(exportService),
		JWTSecret:   []byte(cfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(nil),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewLockExpiryJob(lockService), cfg.LockSweepCron); err != nil {
		return fmt.Errorf("schedule lock sweep: %w", err)
	}
	if cfg.Retention.Enabled {
		retention := job.NewVersionRetentionJob(collectionRepo, contentRepo, versionRepo, cfg.Retention.MaxVersions)
		if err := scheduler.AddJob(retention, cfg.Retention.Cron); err != nil {
			return fmt.Errorf("schedule retention: %w", err)
		}
	}
	scheduler.Start(ctx)

	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	scheduler.Stop()
	return nil
}
