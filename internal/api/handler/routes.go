package handler

import (
	"github.com/labstack/echo/v4"
)

// Handlers はルーティング対象のハンドラーをまとめたもの
type Handlers struct {
	Health *HealthHandler
	Item   *ItemHandler
	Event  *EventHandler
	Stats  *StatsHandler
}

// RegisterRoutes は/api/v1配下にルートを登録する
// authはAPIキー認証ミドルウェアで、ヘルスチェック以外の全ルートに適用される
func RegisterRoutes(e *echo.Echo, h *Handlers, auth echo.MiddlewareFunc) {
	e.GET("/api/v1/health", h.Health.Check)

	v1 := e.Group("/api/v1", auth)

	v1.GET("/randomitems", h.Item.List)
	v1.POST("/randomitems", h.Item.CreateBatch)
	v1.POST("/randomitems/csv", h.Item.CreateBatchCSV)
	v1.GET("/randomitems/:id", h.Item.GetByID)
	v1.PUT("/randomitems/:id", h.Item.Update)
	v1.DELETE("/randomitems/:id", h.Item.Delete)
	v1.GET("/randomitems/:id/statistics", h.Stats.GetByItem)

	v1.GET("/randomevents", h.Event.List)
	v1.POST("/randomevents", h.Event.CreateBatch)
	v1.POST("/randomevents/csv", h.Event.CreateBatchCSV)
	v1.GET("/randomevents/:id", h.Event.GetByID)
	v1.PUT("/randomevents/:id", h.Event.Update)
	v1.DELETE("/randomevents/:id", h.Event.Delete)
}
