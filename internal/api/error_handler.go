package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ubarcturus/improbability/internal/domain/access"
	"github.com/ubarcturus/improbability/internal/domain/item"
	"github.com/ubarcturus/improbability/internal/domain/principal"
	"github.com/ubarcturus/improbability/internal/domain/randomevent"
	"github.com/ubarcturus/improbability/internal/ingest"
	"github.com/ubarcturus/improbability/internal/pkg/logger"
	"github.com/ubarcturus/improbability/internal/stats"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
// ステータスコードが第一のシグナルで、本文は最小限に留める
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

// StatusForError はドメインエラーを対応するHTTPステータスコードに写す
// ここに現れないエラーは内部エラーとして扱う
func StatusForError(err error) int {
	switch {
	// 認証・所有権の違反。未認証が所有権違反より常に優先されるのは
	// ミドルウェアが先に認証を解決するため
	case errors.Is(err, principal.ErrMalformedCredential),
		errors.Is(err, principal.ErrUnknownPrincipal),
		errors.Is(err, access.ErrOwnershipViolation):
		return http.StatusUnauthorized

	case errors.Is(err, item.ErrItemNotFound),
		errors.Is(err, randomevent.ErrEventNotFound):
		return http.StatusNotFound

	case errors.Is(err, item.ErrVersionConflict),
		errors.Is(err, randomevent.ErrVersionConflict):
		return http.StatusConflict

	case errors.Is(err, ingest.ErrEmptyBatch),
		errors.Is(err, ingest.ErrMalformedRow),
		errors.Is(err, ingest.ErrItemIDMismatch),
		errors.Is(err, item.ErrItemNameRequired),
		errors.Is(err, item.ErrInvalidPossibleResults),
		errors.Is(err, randomevent.ErrItemIDRequired),
		errors.Is(err, randomevent.ErrTimeRequired),
		errors.Is(err, randomevent.ErrInvalidTime),
		errors.Is(err, randomevent.ErrItemIDImmutable),
		errors.Is(err, stats.ErrNoResults),
		errors.Is(err, stats.ErrInvalidPossibleResults),
		errors.Is(err, stats.ErrUnsupportedSignificance):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// RespondError はドメインエラーを最小限のJSONボディ付きで返す
func RespondError(c echo.Context, err error) error {
	code := StatusForError(err)
	if code == http.StatusInternalServerError {
		logger.Error("内部エラー",
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
		return c.JSON(code, ErrorResponse{Error: "内部サーバーエラー", Code: code})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error(), Code: code})
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code    = http.StatusInternalServerError
		message = "内部サーバーエラー"
	)

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	// 5xxエラーのみログを出力
	if code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if err := c.JSON(code, ErrorResponse{Error: message, Code: code}); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
