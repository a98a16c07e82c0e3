package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
)

// readRows はヘッダーなしCSVを読み込む
// 標準のカンマ・引用符エスケープに対応し、行ごとの列数の違いを許容する
func readRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}
	return rows, nil
}

// DecodeItemCSV はヘッダーなし位置指定CSVをアイテムのレコード列に変換する
// 1行でも失敗すればバッチ全体が失敗する（全件成功か全件失敗）
func DecodeItemCSV(r io.Reader) ([]*ItemRecord, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	records := make([]*ItemRecord, 0, len(rows))
	for i, fields := range rows {
		record := &ItemRecord{}
		if err := decodeRow(fields, itemSchema(record), i+1); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// DecodeEventCSV はヘッダーなし位置指定CSVをイベントのレコード列に変換する
func DecodeEventCSV(r io.Reader) ([]*EventRecord, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	records := make([]*EventRecord, 0, len(rows))
	for i, fields := range rows {
		record := &EventRecord{}
		if err := decodeRow(fields, eventSchema(record), i+1); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// ValidateEventTargets は全レコードの親アイテムIDが対象アイテムIDと
// 一致することを確認する。1件でも不一致ならバッチ全体を拒否する
func ValidateEventTargets(records []*EventRecord, itemID int64) error {
	for _, record := range records {
		if record.ItemID != itemID {
			return ErrItemIDMismatch
		}
	}
	return nil
}
