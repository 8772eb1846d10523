package types

import "fmt"

// ResultType 单个参战者在一个回合中的结果类别
//
// 数值与上游合约的枚举逐位一致，属于外部契约，不可调整顺序：
//
//	MISS=0, ATTACK=1, CRIT=2, BLOCK=3, COUNTER=4, COUNTER_CRIT=5,
//	DODGE=6, PARRY=7, RIPOSTE=8, RIPOSTE_CRIT=9, EXHAUSTED=10, HIT=11
type ResultType int

const (
	ResultMiss ResultType = iota
	ResultAttack
	ResultCrit
	ResultBlock
	ResultCounter
	ResultCounterCrit
	ResultDodge
	ResultParry
	ResultRiposte
	ResultRiposteCrit
	ResultExhausted
	ResultHit
)

var resultNames = [...]string{
	ResultMiss:        "MISS",
	ResultAttack:      "ATTACK",
	ResultCrit:        "CRIT",
	ResultBlock:       "BLOCK",
	ResultCounter:     "COUNTER",
	ResultCounterCrit: "COUNTER_CRIT",
	ResultDodge:       "DODGE",
	ResultParry:       "PARRY",
	ResultRiposte:     "RIPOSTE",
	ResultRiposteCrit: "RIPOSTE_CRIT",
	ResultExhausted:   "EXHAUSTED",
	ResultHit:         "HIT",
}

// IsValid 是否属于已知的 12 种类别
func (r ResultType) IsValid() bool {
	return r >= ResultMiss && r <= ResultHit
}

// String 返回与合约一致的大写名称，未知值返回 UNKNOWN(n)
func (r ResultType) String() string {
	if !r.IsValid() {
		return fmt.Sprintf("UNKNOWN(%d)", int(r))
	}
	return resultNames[r]
}

// ParseResultType 按名称解析结果类别（大小写敏感，与 String 对应）
func ParseResultType(name string) (ResultType, error) {
	for i, n := range resultNames {
		if n == name {
			return ResultType(i), nil
		}
	}
	return ResultMiss, fmt.Errorf("unknown result type %q", name)
}

// IsOffensive 是否为驱动本回合进攻的类别（ATTACK / CRIT）
func (r ResultType) IsOffensive() bool {
	return r == ResultAttack || r == ResultCrit
}

// IsReactive 是否为会反过来造成伤害的防守类别
func (r ResultType) IsReactive() bool {
	switch r {
	case ResultCounter, ResultCounterCrit, ResultRiposte, ResultRiposteCrit:
		return true
	}
	return false
}

// IsDefended 是否为格挡家族（出现时进攻音效被压制）
func (r ResultType) IsDefended() bool {
	return r == ResultBlock || r == ResultParry || r.IsReactive()
}

// IsCrit 是否为暴击变体
func (r ResultType) IsCrit() bool {
	return r == ResultCrit || r == ResultCounterCrit || r == ResultRiposteCrit
}

// IsCounter 反击（先格挡再出手）
func (r ResultType) IsCounter() bool {
	return r == ResultCounter || r == ResultCounterCrit
}

// IsRiposte 还击（先招架再出手）
func (r ResultType) IsRiposte() bool {
	return r == ResultRiposte || r == ResultRiposteCrit
}

// CarriesDamage 该类别对应的伤害字段是否有意义
// MISS、DODGE、BLOCK、PARRY、EXHAUSTED 以及未知值的伤害一律视为 0
func (r ResultType) CarriesDamage() bool {
	switch r {
	case ResultAttack, ResultCrit, ResultHit:
		return true
	}
	return r.IsReactive()
}
