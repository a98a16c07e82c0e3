package principal

import "context"

// Repository は利用者リポジトリのインターフェース
type Repository interface {
	// GetByAPIKey はAPIキーから利用者を取得する（所有アイテムID込み）
	// トークンはバイト単位の完全一致で比較される
	GetByAPIKey(ctx context.Context, apiKey string) (*Principal, error)
}
