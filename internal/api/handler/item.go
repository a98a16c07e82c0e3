package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ubarcturus/improbability/internal/api"
	"github.com/ubarcturus/improbability/internal/api/middleware"
	"github.com/ubarcturus/improbability/internal/application"
	"github.com/ubarcturus/improbability/internal/domain/item"
	"github.com/ubarcturus/improbability/internal/ingest"
	"github.com/ubarcturus/improbability/internal/pkg/metrics"
)

// ItemHandler はRandomItemのエンドポイントを提供する
type ItemHandler struct {
	itemService ItemServiceInterface
	metrics     *metrics.Metrics
}

// NewItemHandler はItemHandlerを作成する
func NewItemHandler(itemService ItemServiceInterface, m *metrics.Metrics) *ItemHandler {
	return &ItemHandler{itemService: itemService, metrics: m}
}

// ItemRequest はアイテム作成・更新のリクエストボディ
// IDは更新時のみ指定し、パスのIDと一致する必要がある
type ItemRequest struct {
	ID              int64  `json:"id" example:"1"`
	Name            string `json:"name" validate:"required" example:"Blue dice"`
	PossibleResults int    `json:"possible_results" validate:"required,gt=0" example:"6"`
	Description     string `json:"description" example:"My favorite d6"`
}

// ItemResponse はアイテムのレスポンス
type ItemResponse struct {
	ID              int64  `json:"id" example:"1"`
	Name            string `json:"name" example:"Blue dice"`
	PossibleResults int    `json:"possible_results" example:"6"`
	Description     string `json:"description,omitempty" example:"My favorite d6"`
}

func toItemResponse(i *item.Item) *ItemResponse {
	return &ItemResponse{
		ID:              i.ID,
		Name:            i.Name,
		PossibleResults: i.PossibleResults,
		Description:     i.Description,
	}
}

func toItemResponses(items []*item.Item) []*ItemResponse {
	responses := make([]*ItemResponse, len(items))
	for i, it := range items {
		responses[i] = toItemResponse(it)
	}
	return responses
}

// parseID はパスパラメーターのIDを整数に変換する
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "IDの形式が不正です")
	}
	return id, nil
}

// List godoc
// @Summary 所有する全アイテムを取得
// @Tags randomitems
// @Produce json
// @Success 200 {array} ItemResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /randomitems [get]
func (h *ItemHandler) List(c echo.Context) error {
	p := middleware.PrincipalFromContext(c)

	items, err := h.itemService.ListItems(c.Request().Context(), p)
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, toItemResponses(items))
}

// GetByID godoc
// @Summary アイテムを取得
// @Tags randomitems
// @Produce json
// @Param id path int true "アイテムID"
// @Success 200 {object} ItemResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /randomitems/{id} [get]
func (h *ItemHandler) GetByID(c echo.Context) error {
	p := middleware.PrincipalFromContext(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	i, err := h.itemService.GetItem(c.Request().Context(), p, id)
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, toItemResponse(i))
}

// Update godoc
// @Summary アイテムを全置換更新
// @Description PUTセマンティクス。全フィールドを再指定し、省略した任意フィールドは空になる
// @Tags randomitems
// @Accept json
// @Produce json
// @Param id path int true "アイテムID"
// @Param request body ItemRequest true "アイテム情報"
// @Success 200 {object} ItemResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /randomitems/{id} [put]
func (h *ItemHandler) Update(c echo.Context) error {
	p := middleware.PrincipalFromContext(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.ID != id {
		return echo.NewHTTPError(http.StatusBadRequest, "ボディのIDがパスのIDと一致しません")
	}

	i, err := h.itemService.UpdateItem(c.Request().Context(), p, application.UpdateItemInput{
		ID:              id,
		Name:            req.Name,
		PossibleResults: req.PossibleResults,
		Description:     req.Description,
	})
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, toItemResponse(i))
}

// CreateBatch godoc
// @Summary アイテムをJSON配列で一括作成
// @Description 全件成功か全件失敗。IDはサーバー側で採番される
// @Tags randomitems
// @Accept json
// @Produce json
// @Param request body []ItemRequest true "アイテムの配列"
// @Success 201 {array} ItemResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /randomitems [post]
func (h *ItemHandler) CreateBatch(c echo.Context) error {
	p := middleware.PrincipalFromContext(c)

	var reqs []ItemRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}

	// 必須フィールドを欠くレコードが1件でもあればバッチ全体を拒否する
	records := make([]*ingest.ItemRecord, len(reqs))
	for i := range reqs {
		if err := c.Validate(&reqs[i]); err != nil {
			return err
		}
		records[i] = &ingest.ItemRecord{
			Name:            reqs[i].Name,
			PossibleResults: reqs[i].PossibleResults,
			Description:     reqs[i].Description,
		}
	}

	items, err := h.itemService.CreateItems(c.Request().Context(), p, records)
	recordBatchMetrics(h.metrics, "item", "json", len(items), err)
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, toItemResponses(items))
}

// CreateBatchCSV godoc
// @Summary アイテムをヘッダーなしCSVで一括作成
// @Description multipart/form-dataのcsvフィールドで位置指定CSV (name, possible_results, description) を受け付ける
// @Tags randomitems
// @Accept mpfd
// @Produce json
// @Success 201 {array} ItemResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Router /randomitems/csv [post]
func (h *ItemHandler) CreateBatchCSV(c echo.Context) error {
	p := middleware.PrincipalFromContext(c)

	fileHeader, err := c.FormFile("csv")
	if err != nil || fileHeader.Size == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "CSVファイルがありません")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "CSVファイルを開けません")
	}
	defer file.Close()

	records, err := ingest.DecodeItemCSV(file)
	if err != nil {
		recordBatchMetrics(h.metrics, "item", "csv", 0, err)
		return api.RespondError(c, err)
	}

	items, err := h.itemService.CreateItems(c.Request().Context(), p, records)
	recordBatchMetrics(h.metrics, "item", "csv", len(items), err)
	if err != nil {
		return api.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, toItemResponses(items))
}

// Delete godoc
// @Summary アイテムを削除
// @Description 配下のイベントもカスケード削除される
// @Tags randomitems
// @Param id path int true "アイテムID"
// @Success 204
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /randomitems/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	p := middleware.PrincipalFromContext(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.itemService.DeleteItem(c.Request().Context(), p, id); err != nil {
		return api.RespondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
