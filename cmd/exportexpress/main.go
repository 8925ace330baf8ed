package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/internal/container"
	"github.com/aparajitverma/TheExportExpress-sub003/internal/indexer"
	"github.com/aparajitverma/TheExportExpress-sub003/internal/routers"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/services"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := util.LoadConfig()
	logger, err := util.InitLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	client, err := util.ConnectDB(connectCtx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	rdb, err := util.ConnectRedis(connectCtx, cfg.RedisURL)
	cancel()
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		_ = rdb.Close()
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()

	db := client.Database(cfg.DBName)

	if _, err := indexer.NewCatalogManager(db).Create(ctx); err != nil {
		logger.Warn("some indexes could not be created", zap.Error(err))
	}

	var uploader services.Uploader
	if cfg.Cloudinary.CloudName != "" {
		media, err := util.NewMediaUploader(cfg.Cloudinary)
		if err != nil {
			logger.Fatal("failed to init media uploader", zap.Error(err))
		}
		uploader = media
	} else {
		logger.Warn("CLOUDINARY_CLOUDNAME not set, image uploads disabled")
	}

	sc := container.NewServiceContainer(cfg, db, rdb, uploader)

	if cfg.Admin.Email != "" {
		_, created, err := sc.UserService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			logger.Fatal("failed to seed admin user", zap.Error(err))
		}
		if created {
			logger.Info("seeded admin user", zap.String("email", cfg.Admin.Email))
		}
	}

	go func() {
		if err := sc.Tree.Listen(ctx); err != nil {
			logger.Error("category tree listener stopped", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           routers.InitRoute(sc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
