package types

import "fmt"

// TerminationCondition 对战结束的原因（与合约枚举一致）
type TerminationCondition int

const (
	// TerminationHealthDepleted 一方生命值耗尽
	TerminationHealthDepleted TerminationCondition = iota
	// TerminationExhaustion 一方体力耗尽
	TerminationExhaustion
	// TerminationRoundLimit 达到回合上限
	TerminationRoundLimit
)

// MaxRounds 上游引擎的回合上限
const MaxRounds = 50

// IsValid 是否为已知的结束原因
func (c TerminationCondition) IsValid() bool {
	return c >= TerminationHealthDepleted && c <= TerminationRoundLimit
}

func (c TerminationCondition) String() string {
	switch c {
	case TerminationHealthDepleted:
		return "HEALTH_DEPLETED"
	case TerminationExhaustion:
		return "EXHAUSTION"
	case TerminationRoundLimit:
		return "ROUND_LIMIT"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(c))
	}
}
