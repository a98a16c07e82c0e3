package access

import "errors"

// ErrOwnershipViolation は存在するリソースへの所有権のないアクセス
var ErrOwnershipViolation = errors.New("このリソースを操作する権限がありません")
