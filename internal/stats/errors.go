package stats

import "errors"

// 統計エンジンのエラー定義
var (
	ErrNoResults               = errors.New("結果が0件のため統計量を計算できません")
	ErrInvalidPossibleResults  = errors.New("結果の種類数は1以上である必要があります")
	ErrUnsupportedSignificance = errors.New("サポートされていない有意水準と自由度の組み合わせです")
)
