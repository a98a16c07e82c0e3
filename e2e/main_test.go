package e2e

import (
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ubarcturus/improbability/internal/api"
	"github.com/ubarcturus/improbability/internal/api/handler"
	"github.com/ubarcturus/improbability/internal/api/middleware"
	"github.com/ubarcturus/improbability/internal/application"
	"github.com/ubarcturus/improbability/internal/config"
	"github.com/ubarcturus/improbability/internal/infrastructure/postgres"
	"github.com/ubarcturus/improbability/internal/pkg/metrics"
)

var (
	testEcho *echo.Echo
	testDB   *sqlx.DB
)

// TestMain はE2Eテストのエントリポイント
// パッケージ全体で1回だけサーバーを組み立てることで高速化
func TestMain(m *testing.M) {
	cfg := config.Load()

	// DB接続
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		os.Exit(0) // DB未起動時はスキップ
	}
	testDB = db

	if err := postgres.RunMigrations(db.DB, "../migrations"); err != nil {
		db.Close()
		os.Exit(0)
	}

	// キャッシュなしで組み立てる。認証はストア直読みになる
	principalRepo := postgres.NewPrincipalRepository(db)
	itemRepo := postgres.NewItemRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	txManager := postgres.NewTxManager(db)

	authService := application.NewAuthService(principalRepo, nil, cfg.Auth.PrincipalCacheTTL)
	accessService := application.NewAccessService(itemRepo, eventRepo)
	itemService := application.NewItemService(itemRepo, txManager, accessService, authService)
	eventService := application.NewEventService(eventRepo, itemRepo, txManager, accessService)
	statsService := application.NewStatsService(itemRepo, eventRepo, accessService)

	mtr := metrics.NewWithRegistry(prometheus.NewRegistry())

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	middleware.SetupMiddleware(e)

	handler.RegisterRoutes(e, &handler.Handlers{
		Health: handler.NewHealthHandler(),
		Item:   handler.NewItemHandler(itemService, mtr),
		Event:  handler.NewEventHandler(eventService, mtr),
		Stats:  handler.NewStatsHandler(statsService, mtr),
	}, middleware.APIKeyAuth(authService, mtr))

	testEcho = e

	code := m.Run()

	cleanupTables()
	db.Close()

	os.Exit(code)
}

// cleanupTables はテーブルをクリーンアップ
func cleanupTables() {
	testDB.Exec("TRUNCATE TABLE random_events, random_items, principals RESTART IDENTITY CASCADE")
}

// getTestServer は共有サーバーを取得（テスト前にテーブルをクリーンアップ）
func getTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	if testEcho == nil {
		t.Skip("テスト環境が利用できません")
	}
	cleanupTables()
	return testEcho
}

// seedPrincipal はAPIキー付きの利用者を登録しIDを返す
func seedPrincipal(t *testing.T, name, apiKey string) int64 {
	t.Helper()
	var id int64
	err := testDB.Get(&id,
		`INSERT INTO principals (name, api_key) VALUES ($1, $2) RETURNING id`, name, apiKey)
	if err != nil {
		t.Fatalf("利用者の登録に失敗: %v", err)
	}
	return id
}
