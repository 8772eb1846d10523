package combat

import (
	"fmt"
	"log"

	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/timeline"
	"github.com/decker502/duel/pkg/types"
	"github.com/decker502/duel/pkg/utils"
)

// PlaybackState 编排器状态
type PlaybackState int

const (
	StateIdle PlaybackState = iota
	StateRunning
	StateComplete
)

func (s PlaybackState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateComplete:
		return "COMPLETE"
	}
	return fmt.Sprintf("PlaybackState(%d)", int(s))
}

// PlaybackCursor 回放进度
type PlaybackCursor struct {
	CurrentIndex int
	IsRunning    bool
	IsComplete   bool
}

// Orchestrator 按顺序喂回合：IDLE -> RUNNING -> COMPLETE，任意状态都可以重置回 IDLE
type Orchestrator struct {
	scope *Scope
	stage Stage
	exec  *StepExecutor
	bars  *BarController
	clips ClipCatalog
	cues  CuePlayer
	cfg   *config.PlaybackConfig

	signals    Signals
	onFinished func()

	combat   *CombatLog
	state    PlaybackState
	cursor   PlaybackCursor
	startX   [2]float64
	placed   bool
	finished bool
	labels   []Label
}

// NewOrchestrator 创建编排器
func NewOrchestrator(scope *Scope, stage Stage, exec *StepExecutor, bars *BarController, clips ClipCatalog, cues CuePlayer, cfg *config.PlaybackConfig, signals Signals) *Orchestrator {
	o := &Orchestrator{
		scope:   scope,
		stage:   stage,
		exec:    exec,
		bars:    bars,
		clips:   clips,
		cues:    cues,
		cfg:     cfg,
		signals: signals,
	}
	exec.SetCompletionHandler(o.onStepComplete)
	return o
}

// SetFinishedHandler 整场回放结束时的内部回调（胜利收尾）
func (o *Orchestrator) SetFinishedHandler(fn func()) {
	o.onFinished = fn
}

// Load 交入对战记录并初始化血条
// 第一次调用时记下双方的开场站位，之后的重置都回到这里
func (o *Orchestrator) Load(combat *CombatLog) error {
	if err := combat.Validate(); err != nil {
		return err
	}
	o.combat = combat
	if !o.placed {
		for _, side := range types.Sides {
			x, _ := o.stage.ActorPosition(side)
			o.startX[side.Index()] = x
		}
		o.placed = true
	}
	o.Reset()
	return nil
}

// State 当前状态
func (o *Orchestrator) State() PlaybackState {
	return o.state
}

// Cursor 当前进度
func (o *Orchestrator) Cursor() PlaybackCursor {
	return o.cursor
}

// Start 开始回放：倒计时 -> 入场 -> 逐回合
// 只在 IDLE 生效；RUNNING / COMPLETE 时为空操作
func (o *Orchestrator) Start() error {
	if o.combat == nil {
		return ErrNotReady
	}
	if o.state != StateIdle {
		log.Printf("[Orchestrator] Start ignored in state %s", o.state)
		return nil
	}
	if err := o.combat.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrCannotStart, err)
	}

	o.state = StateRunning
	o.cursor = PlaybackCursor{CurrentIndex: 0, IsRunning: true}
	log.Printf("[Orchestrator] Starting playback: %d actions", len(o.combat.Actions))

	o.countdown(0, o.approach)
	return nil
}

// Reset 取消当前一代的所有回调，角色回到开场站位与待机，进度归零
func (o *Orchestrator) Reset() {
	o.scope.Invalidate()
	o.exec.Abort()
	if o.cues != nil {
		o.cues.StopAll()
	}
	for _, l := range o.labels {
		l.Destroy()
	}
	o.labels = nil

	if o.combat != nil {
		o.bars.Initialize(
			Vitals{Health: o.combat.Player1.MaxHealth, Stamina: o.combat.Player1.MaxEndurance},
			Vitals{Health: o.combat.Player2.MaxHealth, Stamina: o.combat.Player2.MaxEndurance},
		)
	}
	for _, side := range types.Sides {
		o.stage.SetActorX(side, o.startX[side.Index()])
		o.stage.SetFacing(side, false)
		o.stage.PlayClip(side, o.clips.ClipName(side, types.ClipIdle), nil)
	}
	o.stage.HideStatPanels()

	o.state = StateIdle
	o.cursor = PlaybackCursor{}
	o.finished = false
}

// countdown 依次显示 3、2、1、Fight!
func (o *Orchestrator) countdown(index int, done func()) {
	cd := o.cfg.Countdown
	if index >= len(cd.Labels) {
		done()
		return
	}

	cx, cy := o.stage.Center()
	text := cd.Labels[index]
	final := index == len(cd.Labels)-1
	style, scale := LabelCountdown, cd.NumberScale
	if final {
		style, scale = LabelCountdownFinal, cd.FinalScale
	}

	label := o.stage.NewLabel(text, cx, cy, style)
	o.labels = append(o.labels, label)
	label.SetAlpha(0)
	label.SetScale(scale * 1.5)

	next := func() {
		label.Destroy()
		o.dropLabel(label)
		o.countdown(index+1, done)
	}

	if !final {
		o.scope.Tween(timeline.TweenSpec{
			From:     0,
			To:       1,
			Duration: cd.NumberDuration,
			Ease:     utils.EaseOutCubic,
			OnUpdate: func(p float64) {
				label.SetAlpha(p)
				label.SetScale(utils.Lerp(scale*1.5, scale*0.5, p))
			},
			OnComplete: next,
		})
		return
	}

	o.scope.Tween(timeline.TweenSpec{
		From:     0,
		To:       1,
		Duration: cd.FinalIn,
		Ease:     utils.EaseOutBack,
		OnUpdate: func(p float64) {
			label.SetAlpha(utils.Clamp(p, 0, 1))
			label.SetScale(utils.Lerp(scale*1.5, scale, p))
		},
		OnComplete: func() {
			o.scope.After(cd.FinalHold, func() {
				o.scope.Tween(timeline.TweenSpec{
					From:     0,
					To:       1,
					Duration: cd.FinalOut,
					Ease:     utils.EaseOutCubic,
					OnUpdate: func(p float64) {
						label.SetAlpha(1 - p)
						label.SetScale(utils.Lerp(scale, scale*0.8, p))
					},
					OnComplete: next,
				})
			})
		},
	})
}

// approach 双方跑向中心，途中显示属性面板，到位后开始第一回合
func (o *Orchestrator) approach() {
	ap := o.cfg.Approach
	cx, _ := o.stage.Center()
	var from, to [2]float64
	for _, side := range types.Sides {
		i := side.Index()
		from[i], _ = o.stage.ActorPosition(side)
		to[i] = cx - ap.Offset
		if side.IsPlayer2() {
			to[i] = cx + ap.Offset
		}
		o.scope.PlayClip(side, o.clips.ClipName(side, types.ClipRunning), nil)
	}

	o.scope.After(ap.StatsReveal, func() {
		for _, side := range types.Sides {
			o.stage.RevealStatPanel(side)
		}
	})

	o.scope.Tween(timeline.TweenSpec{
		From:     0,
		To:       1,
		Duration: ap.Duration,
		Ease:     utils.EaseLinear,
		OnUpdate: func(p float64) {
			for _, side := range types.Sides {
				i := side.Index()
				o.stage.SetActorX(side, utils.Lerp(from[i], to[i], p))
			}
		},
		OnComplete: func() {
			for _, side := range types.Sides {
				o.scope.PlayClip(side, o.clips.ClipName(side, types.ClipIdle), nil)
			}
			o.scope.After(ap.Settle, func() { o.feed(0) })
		},
	})
}

// feed 执行第 index 个回合
func (o *Orchestrator) feed(index int) {
	o.cursor.CurrentIndex = index
	isLast := index == len(o.combat.Actions)-1
	o.exec.HandleStep(o.combat.Actions[index], isLast)
}

func (o *Orchestrator) onStepComplete(isLast bool) {
	if o.state != StateRunning {
		return
	}
	o.signals.stepComplete(isLast)

	if !isLast {
		next := o.cursor.CurrentIndex + 1
		o.scope.After(o.cfg.Step.InterStepDelay, func() { o.feed(next) })
		return
	}

	o.state = StateComplete
	o.cursor.IsRunning = false
	o.cursor.IsComplete = true
	if o.finished {
		return
	}
	o.finished = true
	log.Printf("[Orchestrator] Playback complete after %d actions", len(o.combat.Actions))
	o.signals.sequenceComplete()
	if o.onFinished != nil {
		o.onFinished()
	}
}

func (o *Orchestrator) dropLabel(l Label) {
	for i, existing := range o.labels {
		if existing == l {
			o.labels = append(o.labels[:i], o.labels[i+1:]...)
			return
		}
	}
}
