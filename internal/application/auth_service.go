package application

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ubarcturus/improbability/internal/domain/principal"
	"github.com/ubarcturus/improbability/internal/pkg/logger"
)

// PrincipalCache はAPIキー→利用者のキャッシュのインターフェース
// キャッシュ障害は認証失敗にせず、ストア参照にフォールバックする
type PrincipalCache interface {
	Get(ctx context.Context, apiKey string) (*principal.Principal, error)
	Set(ctx context.Context, p *principal.Principal, ttl time.Duration) error
	Invalidate(ctx context.Context, apiKey string) error
}

// AuthService は認証ヘッダーから利用者を解決する
type AuthService struct {
	principalRepo principal.Repository
	cache         PrincipalCache // nil可
	cacheTTL      time.Duration
}

// NewAuthService はAuthServiceを作成する
func NewAuthService(pr principal.Repository, cache PrincipalCache, cacheTTL time.Duration) *AuthService {
	return &AuthService{principalRepo: pr, cache: cache, cacheTTL: cacheTTL}
}

// ParseAPIKey は`<scheme> <token>`形式の認証ヘッダーからトークンを取り出す
// スキーム名は大文字小文字を区別せず、値そのものは検証しない（従来仕様）
// トークンが続かない場合は形式エラー
func ParseAPIKey(header string) (string, error) {
	fields := strings.Fields(header)
	if len(fields) != 2 {
		return "", principal.ErrMalformedCredential
	}
	return fields[1], nil
}

// Resolve は認証ヘッダーの値から利用者を解決する
// トークンはバイト単位の完全一致で比較される。読み取り専用で副作用はない
func (s *AuthService) Resolve(ctx context.Context, header string) (*principal.Principal, error) {
	apiKey, err := ParseAPIKey(header)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if p, err := s.cache.Get(ctx, apiKey); err == nil {
			return p, nil
		}
	}

	p, err := s.principalRepo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, p, s.cacheTTL); err != nil {
			logger.Warn("利用者キャッシュの保存に失敗", zap.Error(err))
		}
	}
	return p, nil
}

// InvalidatePrincipal は利用者のキャッシュを無効化する
// 所有アイテムの集合が変わった直後に呼ぶ
func (s *AuthService) InvalidatePrincipal(ctx context.Context, p *principal.Principal) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, p.APIKey); err != nil {
		logger.Warn("利用者キャッシュの無効化に失敗", zap.Error(err))
	}
}
