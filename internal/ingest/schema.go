package ingest

import (
	"errors"
	"strconv"
	"strings"
)

// fieldSpec は位置指定スキーマの1フィールド分の定義
// （フィールド名, パーサー, 必須か）の明示的な組で、リフレクションに
// よる列バインディングの置き換え
type fieldSpec struct {
	name     string
	required bool
	assign   func(value string) error
}

var errFieldRequired = errors.New("必須フィールドがありません")

func assignString(target *string) func(string) error {
	return func(value string) error {
		*target = value
		return nil
	}
}

func assignInt(target *int) func(string) error {
	return func(value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return err
		}
		*target = n
		return nil
	}
}

func assignInt64(target *int64) func(string) error {
	return func(value string) error {
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return err
		}
		*target = n
		return nil
	}
}

// ItemRecord はアイテム1件分の取り込み候補
// IDは常にサーバー側で採番されるため入力には現れない
type ItemRecord struct {
	Name            string
	PossibleResults int
	Description     string
}

// スキーマ: (name, possible_results, description)
func itemSchema(r *ItemRecord) []fieldSpec {
	return []fieldSpec{
		{name: "name", required: true, assign: assignString(&r.Name)},
		{name: "possible_results", required: true, assign: assignInt(&r.PossibleResults)},
		{name: "description", required: false, assign: assignString(&r.Description)},
	}
}

// EventRecord はイベント1件分の取り込み候補
type EventRecord struct {
	Name        string
	Time        string
	Result      int
	Description string
	ItemID      int64
}

// スキーマ: (name, time, result, description, random_item_id)
func eventSchema(r *EventRecord) []fieldSpec {
	return []fieldSpec{
		{name: "name", required: false, assign: assignString(&r.Name)},
		{name: "time", required: true, assign: assignString(&r.Time)},
		{name: "result", required: true, assign: assignInt(&r.Result)},
		{name: "description", required: false, assign: assignString(&r.Description)},
		{name: "random_item_id", required: true, assign: assignInt64(&r.ItemID)},
	}
}

// decodeRow は位置指定スキーマに従って1行を読み取る
// 末尾の任意フィールドの欠落は許容し、必須フィールドの欠落・空値や
// 型変換の失敗は行エラーにする。スキーマより多い列は無視する
func decodeRow(fields []string, specs []fieldSpec, row int) error {
	for i, spec := range specs {
		if i >= len(fields) || fields[i] == "" {
			if spec.required {
				return newRowError(row, spec.name, errFieldRequired)
			}
			continue
		}
		if err := spec.assign(fields[i]); err != nil {
			return newRowError(row, spec.name, err)
		}
	}
	return nil
}
