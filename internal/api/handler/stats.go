package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ubarcturus/improbability/internal/api"
	"github.com/ubarcturus/improbability/internal/api/middleware"
	"github.com/ubarcturus/improbability/internal/application"
	"github.com/ubarcturus/improbability/internal/pkg/metrics"
	"github.com/ubarcturus/improbability/internal/stats"
)

// StatsHandler はアイテム統計のエンドポイントを提供する
type StatsHandler struct {
	statsService StatsServiceInterface
	metrics      *metrics.Metrics
}

// NewStatsHandler はStatsHandlerを作成する
func NewStatsHandler(statsService StatsServiceInterface, m *metrics.Metrics) *StatsHandler {
	return &StatsHandler{statsService: statsService, metrics: m}
}

// StatsResponse は統計レポートのレスポンス
type StatsResponse struct {
	RandomItemID         int64   `json:"random_item_id" example:"1"`
	Name                 string  `json:"name" example:"Blue dice"`
	PossibleResults      int     `json:"possible_results" example:"6"`
	Count                int     `json:"count" example:"60"`
	Min                  int     `json:"min" example:"1"`
	Max                  int     `json:"max" example:"6"`
	Mean                 float64 `json:"mean" example:"4.166666666666667"`
	Median               float64 `json:"median" example:"4.5"`
	StandardDeviation    float64 `json:"standard_deviation" example:"1.7045690234060795"`
	ExpectedAvgZeroBased float64 `json:"expected_avg_zero_based" example:"3"`
	ExpectedAvgOneBased  float64 `json:"expected_avg_one_based" example:"3.5"`
	ChiSquared           float64 `json:"chi_squared" example:"13.4"`
	DegreesOfFreedom     int     `json:"degrees_of_freedom" example:"5"`
	Significance         float64 `json:"significance" example:"0.95"`
	CriticalValue        float64 `json:"critical_value" example:"11.07"`
	Verdict              string  `json:"verdict" example:"may be biased"`
}

func toStatsResponse(r *application.StatsReport) *StatsResponse {
	return &StatsResponse{
		RandomItemID:         r.ItemID,
		Name:                 r.ItemName,
		PossibleResults:      r.PossibleResults,
		Count:                r.Summary.Count,
		Min:                  r.Summary.Min,
		Max:                  r.Summary.Max,
		Mean:                 r.Summary.Mean,
		Median:               r.Summary.Median,
		StandardDeviation:    r.Summary.StdDev,
		ExpectedAvgZeroBased: r.Summary.ExpectedAvgZeroBased,
		ExpectedAvgOneBased:  r.Summary.ExpectedAvgOneBased,
		ChiSquared:           r.ChiSquared,
		DegreesOfFreedom:     r.DegreesOfFreedom,
		Significance:         r.Significance.Float(),
		CriticalValue:        r.CriticalValue,
		Verdict:              string(r.Verdict),
	}
}

// GetByItem godoc
// @Summary アイテムの統計レポートを取得
// @Description 全イベント結果に対する記述統計量とカイ二乗適合度検定の結果を返す
// @Tags randomitems
// @Produce json
// @Param id path int true "アイテムID"
// @Param significance query number false "有意水準（デフォルト0.95）"
// @Success 200 {object} StatsResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 401 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /randomitems/{id}/statistics [get]
func (h *StatsHandler) GetByItem(c echo.Context) error {
	p := middleware.PrincipalFromContext(c)
	id, err := parseID(c)
	if err != nil {
		return err
	}

	significance, err := stats.ParseSignificance(c.QueryParam("significance"))
	if err != nil {
		return api.RespondError(c, err)
	}

	report, err := h.statsService.GetItemStatistics(c.Request().Context(), p, id, significance)
	if err != nil {
		return api.RespondError(c, err)
	}
	if h.metrics != nil {
		h.metrics.StatisticsTotal.WithLabelValues(string(report.Verdict)).Inc()
	}
	return c.JSON(http.StatusOK, toStatsResponse(report))
}
