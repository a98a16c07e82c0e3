package randomevent

import "time"

// Event はRandomItemが生成した1回の結果（出目）を表すエンティティ
type Event struct {
	ID          int64
	ItemID      int64  // 親アイテム。作成後は変更不可
	Name        string // 任意
	Time        string // オフセット付きISO-8601。 入力された表記のまま保持する
	Result      int
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int // 楽観的ロック用
}

// NewEvent は新しいEventを作成する
func NewEvent(itemID int64, name, eventTime string, result int, description string) *Event {
	now := time.Now()
	return &Event{
		ItemID:      itemID,
		Name:        name,
		Time:        eventTime,
		Result:      result,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     0,
	}
}

// Validate はEventの検証を行う
func (e *Event) Validate() error {
	if e.ItemID <= 0 {
		return ErrItemIDRequired
	}
	if e.Time == "" {
		return ErrTimeRequired
	}
	if _, err := time.Parse(time.RFC3339, e.Time); err != nil {
		return ErrInvalidTime
	}
	return nil
}
