package principal

import "time"

// Principal はAPIキーで認証される利用者を表すエンティティ
type Principal struct {
	ID        int64
	Name      string
	APIKey    string
	ItemIDs   []int64 // 所有するRandomItemのID一覧
	CreatedAt time.Time
}

// OwnsItem は指定したRandomItemを所有しているかを返す
func (p *Principal) OwnsItem(itemID int64) bool {
	for _, id := range p.ItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}
