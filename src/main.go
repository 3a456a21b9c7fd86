package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goal-app/src/config"
	"goal-app/src/infrastructure/persistence"
	"goal-app/src/interface/handler"
	"goal-app/src/logger"
	"goal-app/src/routes"
	"goal-app/src/storage"
	"goal-app/src/store"
	"goal-app/src/usecase"
	"goal-app/src/validator"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 設定を読み込み
	cfg := config.LoadConfig()

	// ロガーを初期化
	if err := logger.InitLogger(cfg.Log); err != nil {
		panic(fmt.Sprintf("ロガーの初期化に失敗: %v", err))
	}
	defer logger.CloseLogger()

	logger.Log.Info("アプリケーションを開始しています")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	persister, closer, err := persistence.Open(cfg.Storage, logger.Log)
	if err != nil {
		logger.Log.WithError(err).Fatal("ストレージの初期化に失敗")
	}
	defer closer.Close()

	goalStore, err := store.NewGoalStore(ctx, persister, logger.Log)
	if err != nil {
		logger.Log.WithError(err).Fatal("ゴールの読み込みに失敗")
	}

	goalValidator := validator.NewGoalValidator()
	goalUsecase := usecase.NewGoalUsecase(goalStore, goalValidator, logger.Log)

	// S3バックアップを初期化（設定が有効な場合）
	var backupJob *storage.BackupJob
	if cfg.Backup.Enabled {
		uploader, err := storage.NewS3Uploader(&storage.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			UseSSL:          cfg.S3.UseSSL,
		}, logger.Log)
		if err != nil {
			logger.Log.WithError(err).Error("S3アップローダーの初期化に失敗")
		} else {
			backupJob = storage.NewBackupJob(goalUsecase, uploader, cfg.Backup.Prefix, cfg.Backup.Interval, logger.Log)
			backupJob.Start(ctx)
		}
	}

	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())

	routes.SetupRoutes(r, cfg,
		handler.NewGoalHandler(goalUsecase, goalValidator, logger.Log),
		handler.NewHealthHandler(goalUsecase, cfg.Storage.Driver),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("port", cfg.Server.Port).Info("サーバーを開始します")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("サーバーの起動に失敗")
		}
	}()

	<-ctx.Done()
	logger.Log.Info("シャットダウンシグナルを受信しました")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("サーバーのシャットダウンに失敗")
	}

	// 最後のバックアップを実行
	if backupJob != nil {
		if err := backupJob.Stop(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("最後のバックアップに失敗")
		}
	}

	logger.Log.Info("サーバーを停止しました")
}
