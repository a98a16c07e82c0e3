package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ubarcturus/improbability/internal/domain/principal"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// cachedPrincipal はキャッシュに保存する利用者のスナップショット
type cachedPrincipal struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	APIKey  string  `json:"api_key"`
	ItemIDs []int64 `json:"item_ids"`
}

// PrincipalCache はAPIキー→利用者の読み取りキャッシュを管理する
// 所有アイテムの集合が変わったときに無効化される
type PrincipalCache struct {
	client *redis.Client
}

// NewPrincipalCache は新しいPrincipalCacheインスタンスを作成する
func NewPrincipalCache(client *redis.Client) *PrincipalCache {
	return &PrincipalCache{client: client}
}

// Get はAPIキーに対応する利用者をキャッシュから取得する
func (c *PrincipalCache) Get(ctx context.Context, apiKey string) (*principal.Principal, error) {
	val, err := c.client.Get(ctx, c.key(apiKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}

	var cached cachedPrincipal
	if err := json.Unmarshal(val, &cached); err != nil {
		return nil, fmt.Errorf("キャッシュの復元に失敗: %w", err)
	}
	return &principal.Principal{
		ID:      cached.ID,
		Name:    cached.Name,
		APIKey:  cached.APIKey,
		ItemIDs: cached.ItemIDs,
	}, nil
}

// Set は利用者をキャッシュに保存する
func (c *PrincipalCache) Set(ctx context.Context, p *principal.Principal, ttl time.Duration) error {
	val, err := json.Marshal(cachedPrincipal{
		ID:      p.ID,
		Name:    p.Name,
		APIKey:  p.APIKey,
		ItemIDs: p.ItemIDs,
	})
	if err != nil {
		return fmt.Errorf("キャッシュの変換に失敗: %w", err)
	}
	if err := c.client.Set(ctx, c.key(p.APIKey), val, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はAPIキーに対応するキャッシュを無効化する
func (c *PrincipalCache) Invalidate(ctx context.Context, apiKey string) error {
	if err := c.client.Del(ctx, c.key(apiKey)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *PrincipalCache) key(apiKey string) string {
	return fmt.Sprintf("principals:apikey:%s", apiKey)
}
