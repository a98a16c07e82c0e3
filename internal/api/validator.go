package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator はEchoにvalidator/v10を組み込むアダプター
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator はCustomValidatorを作成する
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate は構造体タグに基づくバリデーションを実行する
// 失敗は400のHTTPエラーとしてそのまま返せる形にする
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
