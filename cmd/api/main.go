package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ubarcturus/improbability/internal/api"
	"github.com/ubarcturus/improbability/internal/api/handler"
	custommiddleware "github.com/ubarcturus/improbability/internal/api/middleware"
	"github.com/ubarcturus/improbability/internal/application"
	"github.com/ubarcturus/improbability/internal/config"
	"github.com/ubarcturus/improbability/internal/infrastructure/postgres"
	redisinfra "github.com/ubarcturus/improbability/internal/infrastructure/redis"
	"github.com/ubarcturus/improbability/internal/pkg/logger"
	"github.com/ubarcturus/improbability/internal/pkg/metrics"
)

func main() {
	cfg := config.Load()
	defer logger.Sync()

	// データベース接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続に失敗しました", zap.Error(err))
	}
	defer db.Close()

	// マイグレーション
	if err := postgres.RunMigrations(db.DB, "migrations"); err != nil {
		logger.Fatal("マイグレーションに失敗しました", zap.Error(err))
	}

	// Redis接続（任意）。接続できなければキャッシュなしで起動する
	var principalCache application.PrincipalCache
	redisClient, err := redisinfra.NewClient(&redisinfra.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Warn("Redis接続に失敗したためキャッシュなしで起動します", zap.Error(err))
	} else {
		defer redisClient.Close()
		principalCache = redisinfra.NewPrincipalCache(redisClient)
	}

	// メトリクス
	m := metrics.Init()

	// リポジトリ
	principalRepo := postgres.NewPrincipalRepository(db)
	itemRepo := postgres.NewItemRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	txManager := postgres.NewTxManager(db)

	// サービス
	authService := application.NewAuthService(principalRepo, principalCache, cfg.Auth.PrincipalCacheTTL)
	accessService := application.NewAccessService(itemRepo, eventRepo)
	itemService := application.NewItemService(itemRepo, txManager, accessService, authService)
	eventService := application.NewEventService(eventRepo, itemRepo, txManager, accessService)
	statsService := application.NewStatsService(itemRepo, eventRepo, accessService)

	// Echoセットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	custommiddleware.SetupMiddleware(e)
	e.Use(custommiddleware.PrometheusMiddleware(m))

	// ルーティング
	handler.RegisterRoutes(e, &handler.Handlers{
		Health: handler.NewHealthHandlerWithDB(db),
		Item:   handler.NewItemHandler(itemService, m),
		Event:  handler.NewEventHandler(eventService, m),
		Stats:  handler.NewStatsHandler(statsService, m),
	}, custommiddleware.APIKeyAuth(authService, m))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), custommiddleware.MetricsBasicAuth())

	// サーバー起動
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := e.StartServer(server); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()
	logger.Info("サーバーを起動しました", zap.String("port", cfg.Server.Port))

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
