package combat

import (
	"fmt"

	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/types"
)

// CombatAction 一个回合：双方各自的结果、伤害与体力消耗
// 一旦产生就不再修改
type CombatAction struct {
	P1Result      types.ResultType
	P2Result      types.ResultType
	P1Damage      int
	P2Damage      int
	P1StaminaLost int
	P2StaminaLost int
}

// Result 返回一方的结果类别
func (a CombatAction) Result(side types.Side) types.ResultType {
	if side == types.SidePlayer2 {
		return a.P2Result
	}
	return a.P1Result
}

// Damage 返回一方的原始伤害字段
func (a CombatAction) Damage(side types.Side) int {
	if side == types.SidePlayer2 {
		return a.P2Damage
	}
	return a.P1Damage
}

// StaminaLost 返回一方的体力消耗，无论结果如何都会扣除
func (a CombatAction) StaminaLost(side types.Side) int {
	if side == types.SidePlayer2 {
		return a.P2StaminaLost
	}
	return a.P1StaminaLost
}

// EffectiveDamage 结果类别不带伤害语义时视为 0
func (a CombatAction) EffectiveDamage(side types.Side) int {
	if !a.Result(side).CarriesDamage() {
		return 0
	}
	return a.Damage(side)
}

// ExhaustedSide 返回体力耗尽的一方，玩家1 优先
func (a CombatAction) ExhaustedSide() (types.Side, bool) {
	for _, side := range types.Sides {
		if a.Result(side) == types.ResultExhausted {
			return side, true
		}
	}
	return types.SidePlayer1, false
}

// OffenseDriver 返回本回合的进攻方（结果为 ATTACK / CRIT），玩家2 优先
func (a CombatAction) OffenseDriver() (types.Side, bool) {
	if a.P2Result.IsOffensive() {
		return types.SidePlayer2, true
	}
	if a.P1Result.IsOffensive() {
		return types.SidePlayer1, true
	}
	return types.SidePlayer1, false
}

// CombatOutcome 对战结果
type CombatOutcome struct {
	WinnerID  uint64
	Condition types.TerminationCondition
}

// SourceInfo 对战记录的来源，只用于页脚展示
type SourceInfo struct {
	Network string `yaml:"network"`
	Block   uint64 `yaml:"block"`
	TxID    string `yaml:"tx"`
}

// CombatLog 完整的对战记录，由数据源产生，回放期间只读
type CombatLog struct {
	Outcome           CombatOutcome
	Player1           config.FighterConfig
	Player2           config.FighterConfig
	GameEngineVersion int
	Source            SourceInfo
	Actions           []CombatAction
}

// Fighter 返回一方的参战者数据
func (l *CombatLog) Fighter(side types.Side) config.FighterConfig {
	if side == types.SidePlayer2 {
		return l.Player2
	}
	return l.Player1
}

// SideOf 根据参战者 ID 找到所在一方
func (l *CombatLog) SideOf(id uint64) (types.Side, bool) {
	switch id {
	case l.Player1.ID:
		return types.SidePlayer1, true
	case l.Player2.ID:
		return types.SidePlayer2, true
	}
	return types.SidePlayer1, false
}

// EngineVersion 以 vMAJOR.MINOR 展示引擎版本（102 -> v1.2）
func (l *CombatLog) EngineVersion() string {
	return fmt.Sprintf("v%d.%d", l.GameEngineVersion/100, l.GameEngineVersion%100)
}

// Validate 检查记录是否可以回放
// 胜者 ID 不在这里检查：胜利收尾会单独报告并跳过
func (l *CombatLog) Validate() error {
	if l == nil {
		return fmt.Errorf("nil combat log: %w", ErrMissingField)
	}
	if len(l.Actions) == 0 {
		return ErrEmptyLog
	}
	if l.Player1.ID == 0 || l.Player2.ID == 0 {
		return fmt.Errorf("participant id: %w", ErrMissingField)
	}
	if l.Player1.ID == l.Player2.ID {
		return fmt.Errorf("both participants share id %d: %w", l.Player1.ID, ErrInvalidAction)
	}
	if l.Outcome.WinnerID == 0 {
		return fmt.Errorf("winner: %w", ErrMissingField)
	}
	if !l.Outcome.Condition.IsValid() {
		return fmt.Errorf("termination condition %d: %w", int(l.Outcome.Condition), ErrMissingField)
	}
	for i, a := range l.Actions {
		for _, side := range types.Sides {
			if a.Damage(side) < 0 || a.StaminaLost(side) < 0 {
				return fmt.Errorf("action %d (%s): negative damage or stamina: %w", i, side, ErrInvalidAction)
			}
		}
	}
	return nil
}
