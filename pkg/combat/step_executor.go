package combat

import (
	"fmt"
	"log"

	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/types"
)

// StepPhase 单个回合内的阶段
//
//	attack -> defenseDelay -> reaction -> [counterDelay -> counterStrike] -> done
//	exhausted -> done
type StepPhase int

const (
	PhaseIdle StepPhase = iota
	PhaseExhausted
	PhaseAttack
	PhaseDefenseDelay
	PhaseReaction
	PhaseCounterDelay
	PhaseCounterStrike
	PhaseDone
)

func (p StepPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseExhausted:
		return "exhausted"
	case PhaseAttack:
		return "attack"
	case PhaseDefenseDelay:
		return "defenseDelay"
	case PhaseReaction:
		return "reaction"
	case PhaseCounterDelay:
		return "counterDelay"
	case PhaseCounterStrike:
		return "counterStrike"
	case PhaseDone:
		return "done"
	}
	return fmt.Sprintf("StepPhase(%d)", int(p))
}

// stepRun 正在执行的回合
type stepRun struct {
	action   CombatAction
	isLast   bool
	attacker types.Side
	defender types.Side
	phase    StepPhase
}

// StepExecutor 把一个回合演出来：动画、音效、飘字、延迟提交血条
// 完成后通过 onComplete 报告，是否推进由编排器决定
type StepExecutor struct {
	scope *Scope
	stage Stage
	bars  *BarController
	clips ClipCatalog
	cues  CuePlayer
	cfg   *config.PlaybackConfig

	onComplete func(isLast bool)
	current    *stepRun
}

// NewStepExecutor 创建回合执行器
func NewStepExecutor(scope *Scope, stage Stage, bars *BarController, clips ClipCatalog, cues CuePlayer, cfg *config.PlaybackConfig) *StepExecutor {
	return &StepExecutor{
		scope: scope,
		stage: stage,
		bars:  bars,
		clips: clips,
		cues:  cues,
		cfg:   cfg,
	}
}

// SetCompletionHandler 设置回合完成回调
func (e *StepExecutor) SetCompletionHandler(fn func(isLast bool)) {
	e.onComplete = fn
}

// Phase 当前回合所处阶段
func (e *StepExecutor) Phase() StepPhase {
	if e.current == nil {
		return PhaseIdle
	}
	return e.current.phase
}

// Abort 丢弃当前回合（回调已由 Scope 失效）
func (e *StepExecutor) Abort() {
	e.current = nil
}

// HandleStep 执行一个回合
func (e *StepExecutor) HandleStep(action CombatAction, isLast bool) {
	run := &stepRun{action: action, isLast: isLast}
	e.current = run

	// 1. 体力耗尽：只显示一次提示，停顿后结束，不提交任何数值
	if side, ok := action.ExhaustedSide(); ok {
		run.attacker = side
		e.enter(run, PhaseExhausted)
		return
	}

	// 2-3. 计算新数值，延迟提交
	e.scheduleCommit(action)

	// 4. 进攻方
	attacker, ok := action.OffenseDriver()
	if !ok {
		log.Printf("[StepExecutor] Warning: no offensive result in step (p1=%s, p2=%s), skipping animation",
			action.P1Result, action.P2Result)
		e.scope.After(e.cfg.Step.DefenseDelay, func() { e.finish(run) })
		return
	}
	run.attacker = attacker
	run.defender = attacker.Opponent()
	e.enter(run, PhaseAttack)
}

// scheduleCommit 以当前展示值为基准计算新值，延迟提交给血条
func (e *StepExecutor) scheduleCommit(a CombatAction) {
	p1Health, p1Stamina := e.bars.Displayed(types.SidePlayer1)
	p2Health, p2Stamina := e.bars.Displayed(types.SidePlayer2)

	newP1Stamina := max(0, p1Stamina-float64(a.P1StaminaLost))
	newP2Stamina := max(0, p2Stamina-float64(a.P2StaminaLost))
	newP1Health := p1Health
	newP2Health := p2Health

	// 反应型结果由防守方造成伤害；否则被击中的一方承受对手的攻击伤害
	// 两个分支都从基准值计算，后写入者覆盖，不叠加
	if a.P2Result.IsReactive() {
		newP1Health = max(0, p1Health-float64(a.EffectiveDamage(types.SidePlayer2)))
	} else if a.P2Result == types.ResultHit || a.P2Result == types.ResultCrit {
		newP2Health = max(0, p2Health-float64(a.EffectiveDamage(types.SidePlayer1)))
	}
	if a.P1Result.IsReactive() {
		newP2Health = max(0, p2Health-float64(a.EffectiveDamage(types.SidePlayer1)))
	} else if a.P1Result == types.ResultHit || a.P1Result == types.ResultCrit {
		newP1Health = max(0, p1Health-float64(a.EffectiveDamage(types.SidePlayer2)))
	}

	e.scope.After(e.cfg.Step.CommitDelay, func() {
		e.bars.Commit(newP1Health, newP2Health, newP1Stamina, newP2Stamina)
	})
}

// enter 进入新阶段
func (e *StepExecutor) enter(run *stepRun, phase StepPhase) {
	if e.current != run {
		return
	}
	run.phase = phase

	switch phase {
	case PhaseExhausted:
		e.showText(run.attacker, "Exhausted!", TextExhausted, e.cfg.Text.ExhaustedScale, false)
		e.play(run.attacker, types.ClipIdle, nil)
		e.scope.After(e.cfg.Step.ExhaustedPause, func() { e.finish(run) })

	case PhaseAttack:
		e.play(run.attacker, types.ClipAttacking, func() {
			e.enter(run, PhaseDefenseDelay)
		})
		attackResult := run.action.Result(run.attacker)
		defenderResult := run.action.Result(run.defender)
		if !defenderResult.IsDefended() {
			isMiss := defenderResult == types.ResultMiss || defenderResult == types.ResultDodge
			e.cues.PlayAttackCue(attackResult == types.ResultCrit, isMiss)
		}

	case PhaseDefenseDelay:
		e.play(run.attacker, types.ClipIdle, nil)
		e.scope.After(e.cfg.Step.DefenseDelay, func() {
			e.enter(run, PhaseReaction)
		})

	case PhaseReaction:
		e.react(run)

	case PhaseCounterDelay:
		e.scope.After(e.cfg.Step.DefenseDelay, func() {
			e.enter(run, PhaseCounterStrike)
		})

	case PhaseCounterStrike:
		defenderResult := run.action.Result(run.defender)
		e.play(run.defender, types.ClipAttacking, func() {
			e.play(run.defender, types.ClipIdle, nil)
			e.finish(run)
		})
		// 角色互换：伤害数字显示在原进攻方头上
		e.showDamage(run.attacker, run.action.Damage(run.defender), defenderResult.IsCrit())
	}
}

// react 防守方按结果类别做出反应
func (e *StepExecutor) react(run *stepRun) {
	defender := run.defender
	result := run.action.Result(defender)

	// 反应结束后回到待机并结束回合
	settle := func() {
		e.play(defender, types.ClipIdle, nil)
		e.finish(run)
	}

	switch result {
	case types.ResultMiss:
		e.showText(defender, "Miss!", TextMiss, 1, false)
		e.finish(run)

	case types.ResultDodge:
		e.showText(defender, "Dodge!", TextDodge, 1, false)
		e.playReaction(defender, result, settle)

	case types.ResultHit:
		attackerResult := run.action.Result(run.attacker)
		e.showDamage(defender, run.action.Damage(run.attacker), attackerResult == types.ResultCrit)
		e.playReaction(defender, result, settle)

	case types.ResultBlock:
		e.cues.PlayDefenseCue(result)
		e.showText(defender, "Block!", TextBlock, 1, false)
		e.playReaction(defender, result, settle)

	case types.ResultParry:
		e.cues.PlayDefenseCue(result)
		e.showText(defender, "Parry!", TextBlock, 1, false)
		// 招架复用攻击姿势
		e.play(defender, types.ClipAttacking, settle)

	case types.ResultCounter, types.ResultCounterCrit:
		e.cues.PlayDefenseCue(result)
		e.showText(defender, "Counter!", TextCounter, 1, false)
		e.playReaction(defender, result, func() {
			e.enter(run, PhaseCounterDelay)
		})

	case types.ResultRiposte, types.ResultRiposteCrit:
		e.cues.PlayDefenseCue(result)
		e.showText(defender, "Riposte!", TextCounter, 1, false)
		e.play(defender, types.ClipAttacking, func() {
			e.enter(run, PhaseCounterDelay)
		})

	default:
		log.Printf("[StepExecutor] Warning: defender %s has no reaction for result %s, skipping",
			defender, result)
		e.finish(run)
	}
}

// playReaction 播放类别对应的反应片段；没有映射时直接执行 then
func (e *StepExecutor) playReaction(side types.Side, result types.ResultType, then func()) {
	clip, ok := e.clips.ReactionClip(result)
	if !ok {
		log.Printf("[StepExecutor] Warning: no reaction clip for %s", result)
		then()
		return
	}
	e.play(side, clip, then)
}

func (e *StepExecutor) play(side types.Side, clip string, onComplete func()) {
	e.scope.PlayClip(side, e.clips.ClipName(side, clip), onComplete)
}

func (e *StepExecutor) showText(side types.Side, text string, style TextStyle, scale float64, emphasized bool) {
	x, y := e.stage.ActorPosition(side)
	e.stage.ShowText(x, y-e.cfg.Text.OffsetY, text, style, scale, emphasized)
}

func (e *StepExecutor) showDamage(side types.Side, damage int, crit bool) {
	e.showText(side, fmt.Sprintf("-%d", damage), TextDamage, 1, crit)
}

// finish 回合结束，只报告一次
func (e *StepExecutor) finish(run *stepRun) {
	if e.current != run || run.phase == PhaseDone {
		return
	}
	run.phase = PhaseDone
	e.current = nil
	if e.onComplete != nil {
		e.onComplete(run.isLast)
	}
}
