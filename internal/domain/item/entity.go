package item

import "time"

// Item は乱数を生成・記録する対象（サイコロ等）を表すエンティティ
type Item struct {
	ID              int64
	PrincipalID     int64 // 所有者。作成後は変更不可
	Name            string
	PossibleResults int // 取りうる結果の種類数
	Description     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int // 楽観的ロック用
}

// NewItem は新しいItemを作成する
func NewItem(principalID int64, name string, possibleResults int, description string) *Item {
	now := time.Now()
	return &Item{
		PrincipalID:     principalID,
		Name:            name,
		PossibleResults: possibleResults,
		Description:     description,
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         0,
	}
}

// Validate はItemの検証を行う
func (i *Item) Validate() error {
	if i.Name == "" {
		return ErrItemNameRequired
	}
	if i.PossibleResults <= 0 {
		return ErrInvalidPossibleResults
	}
	return nil
}
