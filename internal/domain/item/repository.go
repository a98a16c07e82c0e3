package item

import (
	"context"

	"github.com/ubarcturus/improbability/internal/domain/transaction"
)

// Repository はアイテムリポジトリのインターフェース
type Repository interface {
	// CreateBatch は複数のアイテムを一括作成する（全件成功か全件失敗）
	// IDは挿入順に採番され、各エンティティに書き戻される
	CreateBatch(ctx context.Context, tx transaction.Tx, items []*Item) error

	// GetByID はIDからアイテムを取得する
	GetByID(ctx context.Context, id int64) (*Item, error)

	// Exists はIDのアイテムが存在するかを返す
	Exists(ctx context.Context, id int64) (bool, error)

	// ListByPrincipal は利用者が所有するアイテム一覧を取得する
	ListByPrincipal(ctx context.Context, principalID int64) ([]*Item, error)

	// Update はアイテムを更新する（楽観的ロック）
	Update(ctx context.Context, item *Item) error

	// Delete はアイテムを削除する。配下のイベントもカスケード削除される
	Delete(ctx context.Context, id int64) error
}
