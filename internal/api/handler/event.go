package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ubarcturus/improbability/internal/api"
	"github.com/ubarcturus/improbability/internal/api/middleware"
	"github.com/ubarcturus/improbability/internal/application"
	"github.com/ubarcturus/improbability/internal/domain/randomevent"
	"github.com/ubarcturus/improbability/internal/ingest"
	"github.com/ubarcturus/improbability/internal/pkg/metrics"
)

// EventHandler はRandomEventのエンドポイントを提供する
type EventHandler struct {
	eventService EventServiceInterface
	metrics      *metrics.Metrics
}

// NewEventHandler はEventHandlerを作成する
func NewEventHandler(eventService EventServiceInterface, m *metrics.Metrics) *EventHandler {
	return &EventHandler{eventService: eventService, metrics: m}
}

// EventRequest はイベント作成・更新のリクエストボディ
// Resultは0が正当な出目のためポインターで未指定と区別する
type EventRequest struct {
	ID           int64  `json:"id" example:"1"`
	RandomItemID int64  `json:"random_item_id" example:"1"`
	Name         string `json:"name" example:"Evening roll"`
	Time         string `json:"time" validate:"required" example:"2026-08-28T19:00:00+09:00"`
	Result       *int   `json:"result" validate:"required" example:"4"`
	Description  string `json:"description" example:""`
}

// EventResponse はイベントのレスポンス
type EventResponse struct {
	ID           int64  `json:"id" example:"1"`
	RandomItemID int64  `json:"random_item_id" example:"1"`
	Name         string `json:"name,omitempty" example:"Evening roll"`
	Time         string `json:"time" example:"2026-08-28T19:00:00+09:00"`
	Result       int    `json:"result" example:"4"`
	Description  string `json:"description,omitempty" example:""`
}

func toEventResponse(e *randomevent.Event) *EventResponse {
	return &EventResponse{
		ID:           e.ID,
		RandomItemID: e.ItemID,
		Name:         e.Name,
		Time:         e.Time,
		Result:       e.Result,
		Description:  e.Description,
	}
}

func toEventResponses(events []*randomevent.Event) []*EventResponse {
	responses := make([]*EventResponse, len(events))
	for i, e := range events {
		responses[i] = toEventResponse(e)
	}
	return responses
}

// parseItemIDQuery はrandomItemIdクエリパラメーターを整数に変換する
// パラメーター未指定は (0, false, nil) を返す
func parseItemIDQuery(c echo.Context) (int64, bool, error) {
	raw := c.QueryParam("randomItemId")
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, false, echo.NewHTTPError(http.StatusBadRequest, "randomItemIdの形式が不正です")
	}
	return id, true, nil
}

// List godoc
// @Summary イベントを取得
// @Description randomItemId指定時はそのアイテムのイベントのみ、未指定時は所有する全アイテムのイベントを返す
// @Tags randomevents
// @Produce json
// @Param randomItemId query int false "絞り込み対象のアイテムID"
// @Success 200 {array} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /randomevents [get]
func (h *EventHandler) List(c echo.Context) error {
	p := middleware.PrincipalFromContext(c)

	itemID, filtered, err := parseItemIDQuery(c)
	if err != nil {
		return err
	}

	var events []*randomevent.Event
	if filtered {
		events, err = h.eventService.ListEventsByItem(c.Request().Context(), p, itemID)
	} else {
		events, err = h.eventService.ListEventsForPrincipal(c.Request().Context(), p)
	}
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// GetByID godoc
// @Summary イベントを取得
// @Tags randomevents
// @Produce json
// @Param id path int true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /randomevents/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	p := middleware.PrincipalFromContext(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	e, err := h.eventService.GetEvent(c.Request().Context(), p, id)
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Update godoc
// @Summary イベントを全置換更新
// @Description PUTセマンティクス。親アイテムIDの変更は拒否される
// @Tags randomevents
// @Accept json
// @Produce json
// @Param id path int true "イベントID"
// @Param request body EventRequest true "イベント情報"
// @Success 200 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /randomevents/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	p := middleware.PrincipalFromContext(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.ID != id {
		return echo.NewHTTPError(http.StatusBadRequest, "ボディのIDがパスのIDと一致しません")
	}

	e, err := h.eventService.UpdateEvent(c.Request().Context(), p, application.UpdateEventInput{
		ID:          id,
		ItemID:      req.RandomItemID,
		Name:        req.Name,
		Time:        req.Time,
		Result:      *req.Result,
		Description: req.Description,
	})
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// CreateBatch godoc
// @Summary イベントをJSON配列で一括作成
// @Description 全件成功か全件失敗。全レコードの親アイテムIDはrandomItemIdと一致する必要がある
// @Tags randomevents
// @Accept json
// @Produce json
// @Param randomItemId query int true "登録先のアイテムID"
// @Param request body []EventRequest true "イベントの配列"
// @Success 201 {array} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /randomevents [post]
func (h *EventHandler) CreateBatch(c echo.Context) error {
	p := middleware.PrincipalFromContext(c)

	itemID, filtered, err := parseItemIDQuery(c)
	if err != nil {
		return err
	}
	if !filtered {
		return echo.NewHTTPError(http.StatusBadRequest, "randomItemIdは必須です")
	}

	var reqs []EventRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}

	// 必須フィールドを欠くレコードが1件でもあればバッチ全体を拒否する
	records := make([]*ingest.EventRecord, len(reqs))
	for i := range reqs {
		if err := c.Validate(&reqs[i]); err != nil {
			return err
		}
		records[i] = &ingest.EventRecord{
			Name:        reqs[i].Name,
			Time:        reqs[i].Time,
			Result:      *reqs[i].Result,
			Description: reqs[i].Description,
			ItemID:      reqs[i].RandomItemID,
		}
	}

	events, err := h.eventService.CreateEvents(c.Request().Context(), p, itemID, records)
	recordBatchMetrics(h.metrics, "event", "json", len(events), err)
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, toEventResponses(events))
}

// CreateBatchCSV godoc
// @Summary イベントをヘッダーなしCSVで一括作成
// @Description multipart/form-dataのcsvフィールドで位置指定CSV (name, time, result, description, random_item_id) を受け付ける
// @Tags randomevents
// @Accept mpfd
// @Produce json
// @Param randomItemId query int true "登録先のアイテムID"
// @Success 201 {array} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /randomevents/csv [post]
func (h *EventHandler) CreateBatchCSV(c echo.Context) error {
	p := middleware.PrincipalFromContext(c)

	itemID, filtered, err := parseItemIDQuery(c)
	if err != nil {
		return err
	}
	if !filtered {
		return echo.NewHTTPError(http.StatusBadRequest, "randomItemIdは必須です")
	}

	fileHeader, err := c.FormFile("csv")
	if err != nil || fileHeader.Size == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "CSVファイルがありません")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "CSVファイルを開けません")
	}
	defer file.Close()

	records, err := ingest.DecodeEventCSV(file)
	if err != nil {
		recordBatchMetrics(h.metrics, "event", "csv", 0, err)
		return api.RespondError(c, err)
	}

	events, err := h.eventService.CreateEvents(c.Request().Context(), p, itemID, records)
	recordBatchMetrics(h.metrics, "event", "csv", len(events), err)
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, toEventResponses(events))
}

// Delete godoc
// @Summary イベントを削除
// @Tags randomevents
// @Param id path int true "イベントID"
// @Success 204
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /randomevents/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	p := middleware.PrincipalFromContext(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.eventService.DeleteEvent(c.Request().Context(), p, id); err != nil {
		return api.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
