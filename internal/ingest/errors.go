package ingest

import (
	"errors"
	"fmt"
)

// 一括取り込みのエラー定義
var (
	ErrEmptyBatch     = errors.New("バッチが空です")
	ErrMalformedRow   = errors.New("行の形式が不正です")
	ErrItemIDMismatch = errors.New("レコードの親アイテムIDが対象アイテムIDと一致しません")
)

// RowError は行単位の取り込み失敗の詳細
// 1行でも失敗すればバッチ全体が拒否される
type RowError struct {
	Row   int    // 1始まりの行番号
	Field string // スキーマ上のフィールド名
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%d行目 %s: %v", e.Row, e.Field, e.Err)
}

func (e *RowError) Unwrap() error {
	return ErrMalformedRow
}

func newRowError(row int, field string, err error) *RowError {
	return &RowError{Row: row, Field: field, Err: err}
}
