package item

import "errors"

// Item ドメインのエラー定義
var (
	ErrItemNotFound           = errors.New("アイテムが見つかりません")
	ErrItemNameRequired       = errors.New("アイテム名は必須です")
	ErrInvalidPossibleResults = errors.New("結果の種類数は1以上である必要があります")
	ErrVersionConflict        = errors.New("楽観的ロックの競合が発生しました")
)
