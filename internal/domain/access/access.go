package access

// Decision はリソースへのアクセス可否の三値判定
// 「存在しないので許可」と「所有しているので許可」を呼び出し側が
// 混同できないよう、booleanではなく列挙で表す
type Decision int

const (
	// DecisionNotFound はリソースが存在しない
	DecisionNotFound Decision = iota
	// DecisionDenied はリソースは存在するが所有者でない
	DecisionDenied
	// DecisionAllowed はリソースを所有している
	DecisionAllowed
)

// String はDecisionの文字列表現を返す
func (d Decision) String() string {
	switch d {
	case DecisionNotFound:
		return "not_found"
	case DecisionDenied:
		return "denied"
	case DecisionAllowed:
		return "allowed"
	default:
		return "unknown"
	}
}
