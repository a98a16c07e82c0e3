package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ubarcturus/improbability/internal/domain/item"
	"github.com/ubarcturus/improbability/internal/domain/transaction"
)

// itemRow はDBの行を表す構造体
type itemRow struct {
	ID              int64     `db:"id"`
	PrincipalID     int64     `db:"principal_id"`
	Name            string    `db:"name"`
	PossibleResults int       `db:"possible_results"`
	Description     *string   `db:"description"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	Version         int       `db:"version"`
}

// toEntity はitemRowをItemエンティティに変換する
func (r *itemRow) toEntity() *item.Item {
	var desc string
	if r.Description != nil {
		desc = *r.Description
	}
	return &item.Item{
		ID:              r.ID,
		PrincipalID:     r.PrincipalID,
		Name:            r.Name,
		PossibleResults: r.PossibleResults,
		Description:     desc,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Version:         r.Version,
	}
}

// ItemRepository はアイテムリポジトリのPostgreSQL実装
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository はItemRepositoryを作成する
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// CreateBatch は複数のアイテムをトランザクション内で一括作成する
// IDは挿入順に採番され、各エンティティに書き戻される
func (r *ItemRepository) CreateBatch(ctx context.Context, tx transaction.Tx, items []*item.Item) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("不正なトランザクション型です")
	}

	query := `
		INSERT INTO random_items (principal_id, name, possible_results, description, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	for _, i := range items {
		var desc *string
		if i.Description != "" {
			desc = &i.Description
		}
		err := sqlxTx.QueryRowContext(ctx, query,
			i.PrincipalID, i.Name, i.PossibleResults, desc, i.CreatedAt, i.UpdatedAt, i.Version,
		).Scan(&i.ID)
		if err != nil {
			return fmt.Errorf("アイテム作成に失敗しました: %w", err)
		}
	}
	return nil
}

// GetByID はIDからアイテムを取得する
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*item.Item, error) {
	query := `SELECT id, principal_id, name, possible_results, description, created_at, updated_at, version FROM random_items WHERE id = $1`

	var row itemRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, item.ErrItemNotFound
		}
		return nil, fmt.Errorf("アイテム取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// Exists はIDのアイテムが存在するかを返す
func (r *ItemRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM random_items WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("アイテムの存在確認に失敗しました: %w", err)
	}
	return exists, nil
}

// ListByPrincipal は利用者が所有するアイテム一覧を取得する
func (r *ItemRepository) ListByPrincipal(ctx context.Context, principalID int64) ([]*item.Item, error) {
	query := `
		SELECT id, principal_id, name, possible_results, description, created_at, updated_at, version
		FROM random_items
		WHERE principal_id = $1
		ORDER BY id
	`

	var rows []itemRow
	err := r.db.SelectContext(ctx, &rows, query, principalID)
	if err != nil {
		return nil, fmt.Errorf("アイテム一覧取得に失敗しました: %w", err)
	}

	items := make([]*item.Item, len(rows))
	for i, row := range rows {
		items[i] = row.toEntity()
	}
	return items, nil
}

// Update はアイテムを更新する（楽観的ロック）
// バージョンが一致しなかった場合はErrVersionConflictを返す
// 呼び出し側が存在を確認し直して404と409を区別する
func (r *ItemRepository) Update(ctx context.Context, i *item.Item) error {
	query := `
		UPDATE random_items
		SET name = $1, possible_results = $2, description = $3, updated_at = $4, version = version + 1
		WHERE id = $5 AND version = $6
	`

	var desc *string
	if i.Description != "" {
		desc = &i.Description
	}

	result, err := r.db.ExecContext(ctx, query,
		i.Name, i.PossibleResults, desc, time.Now(), i.ID, i.Version,
	)
	if err != nil {
		return fmt.Errorf("アイテム更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return item.ErrVersionConflict
	}

	i.Version++
	return nil
}

// Delete はアイテムを削除する
// 配下のイベントは外部キーのON DELETE CASCADEで削除される
func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM random_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("アイテム削除に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return item.ErrItemNotFound
	}
	return nil
}

// インターフェースを満たしているか確認
var _ item.Repository = (*ItemRepository)(nil)
