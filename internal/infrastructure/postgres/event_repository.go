package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ubarcturus/improbability/internal/domain/randomevent"
	"github.com/ubarcturus/improbability/internal/domain/transaction"
)

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID          int64     `db:"id"`
	ItemID      int64     `db:"random_item_id"`
	Name        *string   `db:"name"`
	Time        string    `db:"occurred_at"`
	Result      int       `db:"result"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	Version     int       `db:"version"`
}

// toEntity はeventRowをEventエンティティに変換する
func (r *eventRow) toEntity() *randomevent.Event {
	var name, desc string
	if r.Name != nil {
		name = *r.Name
	}
	if r.Description != nil {
		desc = *r.Description
	}
	return &randomevent.Event{
		ID:          r.ID,
		ItemID:      r.ItemID,
		Name:        name,
		Time:        r.Time,
		Result:      r.Result,
		Description: desc,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}
}

const eventColumns = `id, random_item_id, name, occurred_at, result, description, created_at, updated_at, version`

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository はEventRepositoryを作成する
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// CreateBatch は複数のイベントをトランザクション内で一括作成する
// IDは挿入順に採番され、各エンティティに書き戻される
func (r *EventRepository) CreateBatch(ctx context.Context, tx transaction.Tx, events []*randomevent.Event) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("不正なトランザクション型です")
	}

	query := `
		INSERT INTO random_events (random_item_id, name, occurred_at, result, description, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	for _, e := range events {
		var name, desc *string
		if e.Name != "" {
			name = &e.Name
		}
		if e.Description != "" {
			desc = &e.Description
		}
		err := sqlxTx.QueryRowContext(ctx, query,
			e.ItemID, name, e.Time, e.Result, desc, e.CreatedAt, e.UpdatedAt, e.Version,
		).Scan(&e.ID)
		if err != nil {
			return fmt.Errorf("イベント作成に失敗しました: %w", err)
		}
	}
	return nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*randomevent.Event, error) {
	var row eventRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+eventColumns+` FROM random_events WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, randomevent.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// ListByItem は親アイテムのイベント一覧を取得する
func (r *EventRepository) ListByItem(ctx context.Context, itemID int64) ([]*randomevent.Event, error) {
	var rows []eventRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+eventColumns+` FROM random_events WHERE random_item_id = $1 ORDER BY id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}
	return rowsToEntities(rows), nil
}

// ListByItems は複数アイテムのイベントをまとめて取得する
func (r *EventRepository) ListByItems(ctx context.Context, itemIDs []int64) ([]*randomevent.Event, error) {
	if len(itemIDs) == 0 {
		return []*randomevent.Event{}, nil
	}

	query, args, err := sqlx.In(
		`SELECT `+eventColumns+` FROM random_events WHERE random_item_id IN (?) ORDER BY id`, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("クエリ構築に失敗しました: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}
	return rowsToEntities(rows), nil
}

// ListResultsByItem は親アイテムの全イベントのResult値のみを取得する
// 統計計算用。挿入順で返す
func (r *EventRepository) ListResultsByItem(ctx context.Context, itemID int64) ([]int, error) {
	results := []int{}
	err := r.db.SelectContext(ctx, &results,
		`SELECT result FROM random_events WHERE random_item_id = $1 ORDER BY id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("結果一覧取得に失敗しました: %w", err)
	}
	return results, nil
}

// Update はイベントを更新する（楽観的ロック）
// バージョンが一致しなかった場合はErrVersionConflictを返す
func (r *EventRepository) Update(ctx context.Context, e *randomevent.Event) error {
	query := `
		UPDATE random_events
		SET name = $1, occurred_at = $2, result = $3, description = $4, updated_at = $5, version = version + 1
		WHERE id = $6 AND version = $7
	`

	var name, desc *string
	if e.Name != "" {
		name = &e.Name
	}
	if e.Description != "" {
		desc = &e.Description
	}

	result, err := r.db.ExecContext(ctx, query,
		name, e.Time, e.Result, desc, time.Now(), e.ID, e.Version,
	)
	if err != nil {
		return fmt.Errorf("イベント更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return randomevent.ErrVersionConflict
	}

	e.Version++
	return nil
}

// Delete はイベントを削除する
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM random_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("イベント削除に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return randomevent.ErrEventNotFound
	}
	return nil
}

func rowsToEntities(rows []eventRow) []*randomevent.Event {
	events := make([]*randomevent.Event, len(rows))
	for i, row := range rows {
		events[i] = row.toEntity()
	}
	return events
}

// インターフェースを満たしているか確認
var _ randomevent.Repository = (*EventRepository)(nil)
