package randomevent

import (
	"context"

	"github.com/ubarcturus/improbability/internal/domain/transaction"
)

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// CreateBatch は複数のイベントを一括作成する（全件成功か全件失敗）
	// IDは挿入順に採番され、各エンティティに書き戻される
	CreateBatch(ctx context.Context, tx transaction.Tx, events []*Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id int64) (*Event, error)

	// ListByItem は親アイテムのイベント一覧を取得する
	ListByItem(ctx context.Context, itemID int64) ([]*Event, error)

	// ListByItems は複数アイテムのイベントをまとめて取得する
	ListByItems(ctx context.Context, itemIDs []int64) ([]*Event, error)

	// ListResultsByItem は親アイテムの全イベントのResult値のみを取得する
	ListResultsByItem(ctx context.Context, itemID int64) ([]int, error)

	// Update はイベントを更新する（楽観的ロック）
	Update(ctx context.Context, event *Event) error

	// Delete はイベントを削除する
	Delete(ctx context.Context, id int64) error
}
