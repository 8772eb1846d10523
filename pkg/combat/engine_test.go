package combat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/decker502/duel/pkg/combat"
	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/embedded"
	"github.com/decker502/duel/pkg/game"
	"github.com/decker502/duel/pkg/stage"
	"github.com/decker502/duel/pkg/timeline"
	"github.com/decker502/duel/pkg/types"
)

var hitStep = combat.CombatAction{
	P1Result: types.ResultHit, P1StaminaLost: 5,
	P2Result: types.ResultAttack, P2Damage: 15, P2StaminaLost: 3,
}

var counterStep = combat.CombatAction{
	P1Result: types.ResultAttack, P1Damage: 10, P1StaminaLost: 4,
	P2Result: types.ResultCounter, P2Damage: 12, P2StaminaLost: 6,
}

// TestCountdownLabels 倒计时 3、2、1、Fight! 依次出现在舞台中心，结束后全部销毁
func TestCountdownLabels(t *testing.T) {
	f := newFixture(t, newLog(hitStep))
	f.start()
	f.tl.Advance(3999 * time.Millisecond)

	labels := f.stage.Filter(stage.EventLabel)
	want := []struct {
		text string
		at   time.Duration
	}{
		{"3", 0},
		{"2", 750 * time.Millisecond},
		{"1", 1500 * time.Millisecond},
		{"Fight!", 2250 * time.Millisecond},
	}
	if len(labels) != len(want) {
		t.Fatalf("got %d labels, want %d: %v", len(labels), len(want), labels)
	}
	for i, w := range want {
		l := labels[i]
		if l.Name != w.text || l.At != w.at {
			t.Errorf("label %d = %q at %v, want %q at %v", i, l.Name, l.At, w.text, w.at)
		}
		if l.X != config.StageCenterX || l.Y != config.StageCenterY {
			t.Errorf("label %q at (%v,%v), want stage center", l.Name, l.X, l.Y)
		}
	}
	if live := f.stage.LiveLabels(); len(live) != 1 || live[0].Text != "Fight!" {
		t.Fatalf("before 4s only Fight! should be live, got %v", live)
	}

	f.tl.Advance(time.Millisecond)
	if live := f.stage.LiveLabels(); len(live) != 0 {
		t.Errorf("countdown labels still live after 4s: %d", len(live))
	}
}

// TestApproach 入场：跑步、途中显示属性面板、到位后待机，停顿后第一回合
func TestApproach(t *testing.T) {
	f := newFixture(t, newLog(hitStep))
	f.start()
	f.tl.Advance(4 * time.Second)

	if f.stage.CurrentClip(types.SidePlayer1) != "running" || f.stage.CurrentClip(types.SidePlayer2) != "running2" {
		t.Fatalf("clips at 4s = %s / %s", f.stage.CurrentClip(types.SidePlayer1), f.stage.CurrentClip(types.SidePlayer2))
	}
	if f.stage.PanelVisible(types.SidePlayer1) {
		t.Error("panels should stay hidden until the reveal delay")
	}

	f.tl.Advance(300 * time.Millisecond)
	for _, side := range types.Sides {
		if !f.stage.PanelVisible(side) {
			t.Errorf("%s panel not revealed at 4.3s", side)
		}
	}

	f.tl.Advance(200 * time.Millisecond)
	if x, _ := f.stage.ActorPosition(types.SidePlayer1); x != 265 {
		t.Errorf("P1 halfway x = %v, want 265", x)
	}

	f.tl.Advance(500 * time.Millisecond)
	if x, _ := f.stage.ActorPosition(types.SidePlayer1); x != p1Center {
		t.Errorf("P1 x = %v, want %v", x, p1Center)
	}
	if x, _ := f.stage.ActorPosition(types.SidePlayer2); x != p2Center {
		t.Errorf("P2 x = %v, want %v", x, p2Center)
	}
	if f.stage.CurrentClip(types.SidePlayer1) != "idle" || f.stage.CurrentClip(types.SidePlayer2) != "idle2" {
		t.Error("fighters should idle after arriving")
	}

	f.tl.Advance(499 * time.Millisecond)
	if f.engine.Phase() != combat.PhaseIdle {
		t.Fatalf("first step started early: %s", f.engine.Phase())
	}
	f.tl.Advance(time.Millisecond)
	if f.engine.Phase() != combat.PhaseAttack {
		t.Errorf("phase at 5.5s = %s, want attack", f.engine.Phase())
	}
}

// TestSequenceSignals 每回合报告一次；整场结束只报告一次
func TestSequenceSignals(t *testing.T) {
	f := newFixture(t, newLog(hitStep, counterStep, hitStep))
	f.start()
	if f.engine.State() != combat.StateRunning {
		t.Fatalf("state = %s, want RUNNING", f.engine.State())
	}
	f.runToEnd()

	if want := []bool{false, false, true}; len(f.steps) != 3 || f.steps[0] != want[0] || f.steps[1] != want[1] || f.steps[2] != want[2] {
		t.Errorf("steps = %v, want %v", f.steps, want)
	}
	if f.sequenceDone != 1 || f.victoryDone != 1 {
		t.Errorf("sequenceDone=%d victoryDone=%d, want 1/1", f.sequenceDone, f.victoryDone)
	}
	cur := f.engine.Cursor()
	if f.engine.State() != combat.StateComplete || !cur.IsComplete || cur.IsRunning || cur.CurrentIndex != 2 {
		t.Errorf("state %s cursor %+v", f.engine.State(), cur)
	}

	// COMPLETE 状态下 Start 为空操作
	f.stage.ClearEvents()
	if err := f.engine.Start(); err != nil {
		t.Fatalf("Start after completion: %v", err)
	}
	f.runToEnd()
	if len(f.stage.Events()) != 0 || f.sequenceDone != 1 {
		t.Error("Start in COMPLETE must not replay")
	}
}

// TestInterStepDelay 回合之间间隔 1500ms
func TestInterStepDelay(t *testing.T) {
	f := newFixture(t, newLog(hitStep, hitStep))
	f.start()
	f.tl.Advance(firstStep + 1050*time.Millisecond)
	if len(f.steps) != 1 {
		t.Fatalf("first step should be complete, steps=%v", f.steps)
	}
	f.stage.ClearEvents()

	f.tl.Advance(1499 * time.Millisecond)
	if got := f.clipsOf(types.SidePlayer2); len(got) != 0 {
		t.Fatalf("second step started early: %v", got)
	}
	f.tl.Advance(time.Millisecond)
	if got := f.clipsOf(types.SidePlayer2); len(got) != 1 || got[0] != "attacking2" {
		t.Errorf("second step clips = %v", got)
	}
	if f.engine.Cursor().CurrentIndex != 1 {
		t.Errorf("cursor = %d, want 1", f.engine.Cursor().CurrentIndex)
	}
}

// TestStartWhileRunning 运行中再次 Start 不会重复倒计时
func TestStartWhileRunning(t *testing.T) {
	f := newFixture(t, newLog(hitStep))
	f.start()
	f.tl.Advance(500 * time.Millisecond)
	if err := f.engine.Start(); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	f.tl.Advance(5 * time.Second)
	if got := len(f.stage.Filter(stage.EventLabel)); got != 4 {
		t.Errorf("got %d countdown labels, want 4", got)
	}
}

// TestStartErrors 未就绪与无法开始
func TestStartErrors(t *testing.T) {
	t.Run("未加载记录", func(t *testing.T) {
		f := newFixture(t, nil)
		if err := f.engine.Start(); !errors.Is(err, combat.ErrNotReady) {
			t.Errorf("Start without log = %v, want ErrNotReady", err)
		}
		if f.engine.State() != combat.StateIdle {
			t.Error("state must stay IDLE")
		}
	})

	t.Run("空记录", func(t *testing.T) {
		f := newFixture(t, nil)
		err := f.engine.Load(newLog())
		if !errors.Is(err, combat.ErrCannotStart) || !errors.Is(err, combat.ErrEmptyLog) {
			t.Errorf("Load(empty) = %v, want ErrCannotStart wrapping ErrEmptyLog", err)
		}
		if err := f.engine.Start(); !errors.Is(err, combat.ErrNotReady) {
			t.Errorf("Start after failed Load = %v, want ErrNotReady", err)
		}
	})

	t.Run("负伤害", func(t *testing.T) {
		f := newFixture(t, nil)
		err := f.engine.Load(newLog(combat.CombatAction{P1Result: types.ResultAttack, P1Damage: -3}))
		if !errors.Is(err, combat.ErrInvalidAction) {
			t.Errorf("Load = %v, want ErrInvalidAction", err)
		}
	})

	t.Run("缺少舞台", func(t *testing.T) {
		_, err := combat.NewEngine(combat.EngineDeps{
			Clips: game.NewAnimationRegistry(nil),
			Cues:  &cueRecorder{},
		})
		if !errors.Is(err, combat.ErrNotReady) {
			t.Errorf("NewEngine without stage = %v, want ErrNotReady", err)
		}
	})
}

// TestDeterministicReplay 重置后重新播放与全新播放的演出完全一致
func TestDeterministicReplay(t *testing.T) {
	actions := []combat.CombatAction{hitStep, counterStep, {
		P1Result: types.ResultRiposteCrit, P1Damage: 9, P1StaminaLost: 2,
		P2Result: types.ResultCrit, P2Damage: 20, P2StaminaLost: 6,
	}}

	fresh := newFixture(t, newLog(actions...))
	fresh.start()
	fresh.runToEnd()
	want := fresh.trace(0)

	rerun := newFixture(t, newLog(actions...))
	rerun.start()
	rerun.tl.Advance(8300 * time.Millisecond)
	rerun.engine.Reset()
	rerun.stage.ClearEvents()
	t0 := rerun.tl.Now()
	rerun.start()
	rerun.runToEnd()
	got := rerun.trace(t0)

	if !equalStrings(got, want) {
		t.Errorf("replay diverged: %d vs %d events", len(got), len(want))
		for i := 0; i < len(got) && i < len(want); i++ {
			if got[i] != want[i] {
				t.Errorf("first difference at %d:\n got  %s\n want %s", i, got[i], want[i])
				break
			}
		}
	}
	if rerun.sequenceDone != 1 || rerun.victoryDone != 1 {
		t.Errorf("rerun signals %d/%d, want 1/1", rerun.sequenceDone, rerun.victoryDone)
	}
}

// TestResetCancelsEverything 任意时刻重置后不再有任何回调、信号或事件
func TestResetCancelsEverything(t *testing.T) {
	tests := []struct {
		name string
		at   time.Duration
	}{
		{"倒计时中", time.Second},
		{"入场中", 4500 * time.Millisecond},
		{"回合中", 6100 * time.Millisecond},
		{"提交补间中", firstStep + 1450*time.Millisecond},
		{"胜利收尾中", 8 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, newLog(hitStep))
			f.start()
			f.tl.Advance(tt.at)

			steps, seq, vic := len(f.steps), f.sequenceDone, f.victoryDone
			stops := f.cues.stops
			f.engine.Reset()
			if f.cues.stops != stops+1 {
				t.Error("Reset should stop all cues")
			}
			f.stage.ClearEvents()
			f.runToEnd()

			if ev := f.stage.Events(); len(ev) != 0 {
				t.Errorf("events after reset: %v", f.trace(0))
			}
			if len(f.steps) != steps || f.sequenceDone != seq || f.victoryDone != vic {
				t.Error("signals fired after reset")
			}
			if f.engine.State() != combat.StateIdle || f.engine.Phase() != combat.PhaseIdle {
				t.Errorf("state %s phase %s, want IDLE/idle", f.engine.State(), f.engine.Phase())
			}
			if cur := f.engine.Cursor(); cur != (combat.PlaybackCursor{}) {
				t.Errorf("cursor = %+v", cur)
			}
			for _, side := range types.Sides {
				st := f.engine.Bars().State(side)
				if st.DisplayedHealth != st.MaxHealth || st.CommittedHealth != st.MaxHealth ||
					st.DisplayedStamina != st.MaxStamina || st.CommittedStamina != st.MaxStamina {
					t.Errorf("%s bars not full: %+v", side, st)
				}
				if f.stage.Fill(side, combat.ResourceHealth) != 1 {
					t.Errorf("%s health fill = %v", side, f.stage.Fill(side, combat.ResourceHealth))
				}
				if f.stage.FacingAway(side) || f.stage.PanelVisible(side) {
					t.Errorf("%s facing/panel not restored", side)
				}
			}
			if x, _ := f.stage.ActorPosition(types.SidePlayer1); x != config.Player1StartX {
				t.Errorf("P1 x = %v, want start position", x)
			}
			if f.stage.CurrentClip(types.SidePlayer1) != "idle" {
				t.Errorf("P1 clip = %s", f.stage.CurrentClip(types.SidePlayer1))
			}
			if live := f.stage.LiveLabels(); len(live) != 0 {
				t.Errorf("%d labels survived reset", len(live))
			}
		})
	}
}

// TestBarsDepleteMonotonically 逐帧推进时展示值只减不增
func TestBarsDepleteMonotonically(t *testing.T) {
	f := newFixture(t, newLog(hitStep, counterStep, hitStep, counterStep))
	f.start()

	prev := [2][2]float64{}
	for _, side := range types.Sides {
		h, s := f.engine.Bars().Displayed(side)
		prev[side.Index()] = [2]float64{h, s}
	}
	for frame := 0; frame < 60*30 && f.victoryDone == 0; frame++ {
		f.tl.Update(1.0 / 60)
		for _, side := range types.Sides {
			h, s := f.engine.Bars().Displayed(side)
			p := prev[side.Index()]
			if h > p[0] || s > p[1] {
				t.Fatalf("frame %d: %s rose from %v/%v to %v/%v", frame, side, p[0], p[1], h, s)
			}
			prev[side.Index()] = [2]float64{h, s}
		}
	}
	if f.victoryDone != 1 {
		t.Fatal("playback did not finish within 30s of frames")
	}
	if h, s := f.vitals(types.SidePlayer1); h != 46 || s != 32 {
		t.Errorf("P1 = %v/%v, want 46/32", h, s)
	}
}

// TestSampleCombat 内置示例对战的最终数值
func TestSampleCombat(t *testing.T) {
	embedded.InitFromDir("../..")
	log, err := combat.FileSource{Path: "data/combat/sample.yaml"}.LoadCombat(context.Background())
	if err != nil {
		t.Fatalf("LoadCombat: %v", err)
	}

	f := newFixture(t, log)
	f.start()
	f.runToEnd()

	tests := []struct {
		side            types.Side
		health, stamina float64
	}{
		{types.SidePlayer1, 76, 14},
		{types.SidePlayer2, 0, 1},
	}
	for _, tt := range tests {
		if h, s := f.vitals(tt.side); h != tt.health || s != tt.stamina {
			t.Errorf("%s = %v/%v, want %v/%v", tt.side, h, s, tt.health, tt.stamina)
		}
	}
	if len(f.steps) != len(log.Actions) || f.victoryDone != 1 {
		t.Errorf("steps=%d victory=%d", len(f.steps), f.victoryDone)
	}
	if got := count(f.clipsOf(types.SidePlayer2), "dying2"); got != 1 {
		t.Errorf("loser dying clips = %d, want 1", got)
	}
}

// TestSharedScopeWithTimeline 调用方传入的 Scope 与引擎共用同一代号
func TestSharedScopeWithTimeline(t *testing.T) {
	tl := timeline.New()
	reg := game.NewAnimationRegistry(nil)
	reg.Register(types.SidePlayer1, nil)
	reg.Register(types.SidePlayer2, nil)
	h := stage.NewHeadless(tl, reg)
	scope := combat.NewScope(h)

	engine, err := combat.NewEngine(combat.EngineDeps{
		Stage: h,
		Scope: scope,
		Clips: reg,
		Cues:  &cueRecorder{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if engine.Scope() != scope {
		t.Fatal("engine should use the injected scope")
	}
	if err := engine.Load(newLog(hitStep)); err != nil {
		t.Fatal(err)
	}

	fired := false
	scope.After(time.Second, func() { fired = true })
	engine.Reset()
	tl.Advance(2 * time.Second)
	if fired {
		t.Error("engine reset should invalidate callbacks scheduled on the shared scope")
	}
}
