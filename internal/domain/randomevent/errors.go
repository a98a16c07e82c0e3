package randomevent

import "errors"

// Event ドメインのエラー定義
var (
	ErrEventNotFound   = errors.New("イベントが見つかりません")
	ErrItemIDRequired  = errors.New("親アイテムIDは必須です")
	ErrTimeRequired    = errors.New("発生時刻は必須です")
	ErrInvalidTime     = errors.New("発生時刻はオフセット付きISO-8601形式である必要があります")
	ErrItemIDImmutable = errors.New("親アイテムIDは変更できません")
	ErrVersionConflict = errors.New("楽観的ロックの競合が発生しました")
)
