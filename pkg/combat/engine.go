// Package combat 对战回放引擎
//
// 输入是一份已经确定的对战记录（CombatLog），输出是一段按时间编排的演出：
// 角色动画、音效、血条消耗、飘字和胜利收尾。引擎只通过 Stage 接口驱动画面，
// 所有等待都是 Stage 时钟上的回调，因此可以在无界面的时间线上确定性地测试。
package combat

import (
	"fmt"
	"log"

	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/types"
)

// EngineDeps 引擎依赖，全部在构造时注入
type EngineDeps struct {
	Stage  Stage
	Scope  *Scope // 为空时自动创建；音效调度需要共享同一个 Scope 时由调用方传入
	Clips  ClipCatalog
	Cues   CuePlayer
	Bars   BarRenderer // 可以为空
	Config *config.PlaybackConfig

	Signals Signals
}

// Engine 组装好的回放引擎
type Engine struct {
	scope        *Scope
	bars         *BarController
	executor     *StepExecutor
	orchestrator *Orchestrator
	epilogue     *VictoryEpilogue
	combat       *CombatLog
}

// NewEngine 组装引擎：回合完成 -> 编排器，整场结束 -> 胜利收尾
func NewEngine(deps EngineDeps) (*Engine, error) {
	if deps.Stage == nil || deps.Clips == nil || deps.Cues == nil {
		return nil, fmt.Errorf("stage, clips and cues are required: %w", ErrNotReady)
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultPlaybackConfig()
	}
	scope := deps.Scope
	if scope == nil {
		scope = NewScope(deps.Stage)
	}

	bars := NewBarController(scope, deps.Bars, cfg.Step.BarTween)
	exec := NewStepExecutor(scope, deps.Stage, bars, deps.Clips, deps.Cues, cfg)
	orch := NewOrchestrator(scope, deps.Stage, exec, bars, deps.Clips, deps.Cues, cfg, deps.Signals)
	epilogue := NewVictoryEpilogue(scope, deps.Stage, deps.Clips, cfg, deps.Signals)

	e := &Engine{
		scope:        scope,
		bars:         bars,
		executor:     exec,
		orchestrator: orch,
		epilogue:     epilogue,
	}
	orch.SetFinishedHandler(e.onSequenceComplete)
	return e, nil
}

// Load 交入对战记录
func (e *Engine) Load(combat *CombatLog) error {
	if err := e.orchestrator.Load(combat); err != nil {
		return fmt.Errorf("%w: %w", ErrCannotStart, err)
	}
	e.combat = combat
	e.epilogue.SetCombat(combat)
	e.epilogue.Reset()
	return nil
}

// Start 开始回放
func (e *Engine) Start() error {
	return e.orchestrator.Start()
}

// Reset 中止并回到开场状态
func (e *Engine) Reset() {
	e.orchestrator.Reset()
	e.epilogue.Reset()
}

// State 编排器状态
func (e *Engine) State() PlaybackState {
	return e.orchestrator.State()
}

// Cursor 回放进度
func (e *Engine) Cursor() PlaybackCursor {
	return e.orchestrator.Cursor()
}

// Phase 当前回合阶段
func (e *Engine) Phase() StepPhase {
	return e.executor.Phase()
}

// Bars 血条控制器（只读访问展示状态，或挂属性面板）
func (e *Engine) Bars() *BarController {
	return e.bars
}

// Scope 当前的代守卫
func (e *Engine) Scope() *Scope {
	return e.scope
}

// AttachPanel 为一方挂上属性面板
func (e *Engine) AttachPanel(side types.Side, panel StatPanel) {
	e.bars.AttachPanel(side, panel)
}

func (e *Engine) onSequenceComplete() {
	if err := e.epilogue.Play(e.combat.Outcome.WinnerID); err != nil {
		log.Printf("[Engine] Victory epilogue skipped: %v", err)
	}
}
