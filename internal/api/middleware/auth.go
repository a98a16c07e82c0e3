package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ubarcturus/improbability/internal/api"
	"github.com/ubarcturus/improbability/internal/domain/principal"
	"github.com/ubarcturus/improbability/internal/pkg/metrics"
)

// principalContextKey はEchoコンテキストに利用者を格納するキー
const principalContextKey = "principal"

// PrincipalResolver は認証ヘッダーから利用者を解決するインターフェース
type PrincipalResolver interface {
	Resolve(ctx context.Context, header string) (*principal.Principal, error)
}

// APIKeyAuth は`Authorization: Key <token>`による認証ミドルウェア
// 未認証は所有権違反より常に優先して報告される（このミドルウェアが
// ハンドラーより先に実行されるため）
func APIKeyAuth(resolver PrincipalResolver, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)

			p, err := resolver.Resolve(c.Request().Context(), header)
			if err != nil {
				if m != nil {
					m.AuthAttemptsTotal.WithLabelValues(authResult(err)).Inc()
				}
				return c.JSON(http.StatusUnauthorized, api.ErrorResponse{
					Error: err.Error(),
					Code:  http.StatusUnauthorized,
				})
			}

			if m != nil {
				m.AuthAttemptsTotal.WithLabelValues("ok").Inc()
			}
			c.Set(principalContextKey, p)
			return next(c)
		}
	}
}

// PrincipalFromContext はリクエストの認証済み利用者を取り出す
// APIKeyAuthを通っていなければnilを返す
func PrincipalFromContext(c echo.Context) *principal.Principal {
	p, _ := c.Get(principalContextKey).(*principal.Principal)
	return p
}

// SetPrincipal はテスト用に利用者をコンテキストへ直接セットする
func SetPrincipal(c echo.Context, p *principal.Principal) {
	c.Set(principalContextKey, p)
}

func authResult(err error) string {
	switch {
	case errors.Is(err, principal.ErrMalformedCredential):
		return "malformed"
	case errors.Is(err, principal.ErrUnknownPrincipal):
		return "unknown"
	default:
		return "error"
	}
}
