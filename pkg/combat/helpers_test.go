package combat_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/decker502/duel/pkg/combat"
	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/game"
	"github.com/decker502/duel/pkg/stage"
	"github.com/decker502/duel/pkg/timeline"
	"github.com/decker502/duel/pkg/types"
)

// 默认配置下第一回合开始的时刻：倒计时 4s + 入场 1s + 停顿 0.5s
const firstStep = 5500 * time.Millisecond

// 入场后双方的位置
const (
	p1Center = config.StageCenterX - 75
	p2Center = config.StageCenterX + 75
)

// cueRecorder 记录音效调用
type cueRecorder struct {
	calls []string
	stops int
}

func (c *cueRecorder) PlayAttackCue(isCrit, isMiss bool) {
	c.calls = append(c.calls, fmt.Sprintf("attack crit=%t miss=%t", isCrit, isMiss))
}

func (c *cueRecorder) PlayDefenseCue(result types.ResultType) {
	c.calls = append(c.calls, "defense "+result.String())
}

func (c *cueRecorder) StopAll() {
	c.stops++
}

type fixture struct {
	t      *testing.T
	tl     *timeline.Timeline
	stage  *stage.Headless
	reg    *game.AnimationRegistry
	cues   *cueRecorder
	engine *combat.Engine

	steps        []bool
	sequenceDone int
	victoryDone  int
}

// newFixture 在无界面舞台上组装引擎；log 不为空时直接加载
func newFixture(t *testing.T, log *combat.CombatLog) *fixture {
	t.Helper()
	reg := game.NewAnimationRegistry(nil)
	reg.Register(types.SidePlayer1, nil)
	reg.Register(types.SidePlayer2, nil)

	tl := timeline.New()
	f := &fixture{
		t:     t,
		tl:    tl,
		stage: stage.NewHeadless(tl, reg),
		reg:   reg,
		cues:  &cueRecorder{},
	}

	engine, err := combat.NewEngine(combat.EngineDeps{
		Stage:  f.stage,
		Clips:  reg,
		Cues:   f.cues,
		Bars:   f.stage,
		Config: config.DefaultPlaybackConfig(),
		Signals: combat.Signals{
			OnStepComplete:     func(isLast bool) { f.steps = append(f.steps, isLast) },
			OnSequenceComplete: func() { f.sequenceDone++ },
			OnVictoryComplete:  func() { f.victoryDone++ },
		},
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	f.engine = engine

	if log != nil {
		if err := engine.Load(log); err != nil {
			t.Fatalf("Load: %v", err)
		}
	}
	f.stage.ClearEvents()
	return f
}

func (f *fixture) start() {
	f.t.Helper()
	if err := f.engine.Start(); err != nil {
		f.t.Fatalf("Start: %v", err)
	}
}

// runToEnd 快进直到没有待触发的回调
func (f *fixture) runToEnd() {
	f.t.Helper()
	if !f.tl.RunUntilIdle(10 * time.Minute) {
		f.t.Fatal("playback did not go idle")
	}
}

// trace 以 since 为零点的事件文本
func (f *fixture) trace(since time.Duration) []string {
	events := f.stage.Events()
	out := make([]string, 0, len(events))
	for _, e := range events {
		e.At -= since
		out = append(out, e.String())
	}
	return out
}

func (f *fixture) texts() []string {
	var out []string
	for _, e := range f.stage.Texts() {
		out = append(out, e.Name)
	}
	return out
}

// clipsOf 一方播放过的片段，按顺序
func (f *fixture) clipsOf(side types.Side) []string {
	var out []string
	for _, e := range f.stage.Filter(stage.EventClip) {
		if e.Side == side {
			out = append(out, e.Name)
		}
	}
	return out
}

func (f *fixture) vitals(side types.Side) (health, stamina float64) {
	st := f.engine.Bars().State(side)
	return st.CommittedHealth, st.CommittedStamina
}

// newLog 双方 100/50 的对战记录，玩家1（id 7）获胜
func newLog(actions ...combat.CombatAction) *combat.CombatLog {
	return &combat.CombatLog{
		Outcome: combat.CombatOutcome{WinnerID: 7, Condition: types.TerminationHealthDepleted},
		Player1: config.FighterConfig{ID: 7, Name: "Aldric", MaxHealth: 100, MaxEndurance: 50},
		Player2: config.FighterConfig{ID: 9, Name: "Ogre", MaxHealth: 100, MaxEndurance: 50},
		Actions: actions,
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func count(items []string, want string) int {
	n := 0
	for _, s := range items {
		if s == want {
			n++
		}
	}
	return n
}
