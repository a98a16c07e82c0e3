package principal

import "errors"

// Principal ドメインのエラー定義
var (
	ErrMalformedCredential = errors.New("認証ヘッダーの形式が不正です")
	ErrUnknownPrincipal    = errors.New("APIキーに対応する利用者が見つかりません")
)
