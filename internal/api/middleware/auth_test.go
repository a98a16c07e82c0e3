package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubarcturus/improbability/internal/domain/principal"
	"github.com/ubarcturus/improbability/internal/pkg/metrics"
)

// fakeResolver はテスト用のPrincipalResolver実装
type fakeResolver struct {
	p          *principal.Principal
	err        error
	seenHeader string
}

func (f *fakeResolver) Resolve(_ context.Context, header string) (*principal.Principal, error) {
	f.seenHeader = header
	if f.err != nil {
		return nil, f.err
	}
	return f.p, nil
}

func TestAPIKeyAuth_ValidKey(t *testing.T) {
	e := echo.New()
	p := &principal.Principal{ID: 1, Name: "テスト利用者", ItemIDs: []int64{1}}
	resolver := &fakeResolver{p: p}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/randomitems", nil)
	req.Header.Set(echo.HeaderAuthorization, "Key valid-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *principal.Principal
	handler := APIKeyAuth(resolver, nil)(func(c echo.Context) error {
		got = PrincipalFromContext(c)
		return c.String(http.StatusOK, "ok")
	})

	err := handler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	// 解決された利用者がコンテキストへ渡されること
	assert.Equal(t, p, got)
	// Authorizationヘッダーがそのままリゾルバーへ渡されること
	assert.Equal(t, "Key valid-token", resolver.seenHeader)
}

func TestAPIKeyAuth_MalformedHeader(t *testing.T) {
	e := echo.New()
	resolver := &fakeResolver{err: principal.ErrMalformedCredential}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/randomitems", nil)
	// Authorizationヘッダーなし
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	handler := APIKeyAuth(resolver, nil)(func(c echo.Context) error {
		nextCalled = true
		return c.String(http.StatusOK, "ok")
	})

	err := handler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// ハンドラーへ到達しないこと
	assert.False(t, nextCalled)
}

func TestAPIKeyAuth_UnknownKey(t *testing.T) {
	e := echo.New()
	resolver := &fakeResolver{err: principal.ErrUnknownPrincipal}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/randomitems", nil)
	req.Header.Set(echo.HeaderAuthorization, "Key no-such-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	handler := APIKeyAuth(resolver, nil)(func(c echo.Context) error {
		nextCalled = true
		return c.String(http.StatusOK, "ok")
	})

	err := handler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, nextCalled)
}

func TestAPIKeyAuth_RecordsMetrics(t *testing.T) {
	e := echo.New()
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	tests := []struct {
		name       string
		resolver   *fakeResolver
		wantResult string
	}{
		{
			name:       "認証成功",
			resolver:   &fakeResolver{p: &principal.Principal{ID: 1}},
			wantResult: "ok",
		},
		{
			name:       "形式不正",
			resolver:   &fakeResolver{err: principal.ErrMalformedCredential},
			wantResult: "malformed",
		},
		{
			name:       "未知のキー",
			resolver:   &fakeResolver{err: principal.ErrUnknownPrincipal},
			wantResult: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/randomitems", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := APIKeyAuth(tt.resolver, m)(func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			})
			require.NoError(t, handler(c))
		})
	}

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "auth_attempts_total" {
			found = true
			// ok / malformed / unknown の3系列が記録されること
			assert.Equal(t, 3, len(f.GetMetric()))
		}
	}
	assert.True(t, found, "auth_attempts_total metric not found")
}

func TestPrincipalFromContext_Unauthenticated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// 認証を通っていなければnil
	assert.Nil(t, PrincipalFromContext(c))
}
