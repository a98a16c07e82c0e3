package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ubarcturus/improbability/internal/domain/principal"
)

// principalRow はDBの行を表す構造体
type principalRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	APIKey    string    `db:"api_key"`
	CreatedAt time.Time `db:"created_at"`
}

// PrincipalRepository は利用者リポジトリのPostgreSQL実装
type PrincipalRepository struct {
	db *sqlx.DB
}

// NewPrincipalRepository はPrincipalRepositoryを作成する
func NewPrincipalRepository(db *sqlx.DB) *PrincipalRepository {
	return &PrincipalRepository{db: db}
}

// GetByAPIKey はAPIキーから利用者を取得する
// 比較はbytea同士の完全一致。所有アイテムIDも合わせて読み込む
func (r *PrincipalRepository) GetByAPIKey(ctx context.Context, apiKey string) (*principal.Principal, error) {
	query := `SELECT id, name, api_key, created_at FROM principals WHERE api_key = $1`

	var row principalRow
	err := r.db.GetContext(ctx, &row, query, apiKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, principal.ErrUnknownPrincipal
		}
		return nil, fmt.Errorf("利用者取得に失敗しました: %w", err)
	}

	itemIDs := []int64{}
	err = r.db.SelectContext(ctx, &itemIDs,
		`SELECT id FROM random_items WHERE principal_id = $1 ORDER BY id`, row.ID)
	if err != nil {
		return nil, fmt.Errorf("所有アイテムの取得に失敗しました: %w", err)
	}

	return &principal.Principal{
		ID:        row.ID,
		Name:      row.Name,
		APIKey:    row.APIKey,
		ItemIDs:   itemIDs,
		CreatedAt: row.CreatedAt,
	}, nil
}

// インターフェースを満たしているか確認
var _ principal.Repository = (*PrincipalRepository)(nil)
