package game

import (
	"testing"
	"time"

	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/types"
)

// TestRegisterClips 注册全部 9 个片段，玩家2 带后缀
func TestRegisterClips(t *testing.T) {
	r := NewAnimationRegistry(nil)
	r.Register(types.SidePlayer1, nil)
	r.Register(types.SidePlayer2, map[string]float64{types.ClipAttacking: 12})

	for _, clip := range types.AllClips {
		p1, ok := r.Lookup(clip)
		if !ok {
			t.Errorf("玩家1 缺少片段 %s", clip)
			continue
		}
		p2, ok := r.Lookup(clip + "2")
		if !ok {
			t.Errorf("玩家2 缺少片段 %s2", clip)
			continue
		}
		if p1.Base != clip || p2.Base != clip {
			t.Errorf("Base mismatch: %s / %s", p1.Base, p2.Base)
		}
		if p2.Side != types.SidePlayer2 {
			t.Errorf("%s 应属于玩家2", p2.Name)
		}
	}

	if spec, _ := r.Lookup("attacking2"); spec.FPS != 12 {
		t.Errorf("attacking2 FPS = %v, 期望资源元数据中的 12", spec.FPS)
	}
	if spec, _ := r.Lookup("attacking"); spec.FPS != 24 {
		t.Errorf("attacking FPS = %v, 期望默认 24", spec.FPS)
	}
}

// TestLoopPolicy idle/walking/running 循环，其余只播一次
func TestLoopPolicy(t *testing.T) {
	r := NewAnimationRegistry(nil)
	r.Register(types.SidePlayer1, nil)

	tests := []struct {
		clip string
		loop bool
	}{
		{types.ClipIdle, true},
		{types.ClipWalking, true},
		{types.ClipRunning, true},
		{types.ClipAttacking, false},
		{types.ClipBlocking, false},
		{types.ClipDying, false},
		{types.ClipHurt, false},
		{types.ClipDodging, false},
		{types.ClipTaunting, false},
	}

	for _, tt := range tests {
		spec, _ := r.Lookup(tt.clip)
		if spec.Loop != tt.loop {
			t.Errorf("%s loop = %v, 期望 %v", tt.clip, spec.Loop, tt.loop)
		}
	}
}

// TestReRegisterReplaces 重新注册替换旧定义
func TestReRegisterReplaces(t *testing.T) {
	r := NewAnimationRegistry(nil)
	r.Register(types.SidePlayer1, map[string]float64{types.ClipHurt: 10})
	r.Register(types.SidePlayer1, map[string]float64{types.ClipHurt: 30})

	if spec, _ := r.Lookup(types.ClipHurt); spec.FPS != 30 {
		t.Errorf("hurt FPS = %v, 期望 30", spec.FPS)
	}
}

func TestClipDuration(t *testing.T) {
	r := NewAnimationRegistry(nil)
	r.Register(types.SidePlayer1, nil)

	// attacking: 12 帧 / 24fps = 500ms
	if d := r.Duration(types.ClipAttacking); d != 500*time.Millisecond {
		t.Errorf("attacking duration = %v, 期望 500ms", d)
	}
	if d := r.Duration("missing"); d != 0 {
		t.Errorf("未注册片段时长 = %v, 期望 0", d)
	}
}

func TestFrameAt(t *testing.T) {
	once := ClipSpec{Frames: 12, FPS: 24}
	if f, done := once.FrameAt(250 * time.Millisecond); f != 6 || done {
		t.Errorf("FrameAt(250ms) = %d, %v", f, done)
	}
	if f, done := once.FrameAt(time.Second); f != 11 || !done {
		t.Errorf("FrameAt(1s) = %d, %v", f, done)
	}

	loop := ClipSpec{Frames: 12, FPS: 24, Loop: true}
	if f, done := loop.FrameAt(time.Second); f != 0 || done {
		t.Errorf("loop FrameAt(1s) = %d, %v", f, done)
	}
}

// TestReactionClipTable 结果类别与片段的映射表
func TestReactionClipTable(t *testing.T) {
	r := NewAnimationRegistry(config.DefaultAnimationConfig())

	tests := []struct {
		result types.ResultType
		clip   string
		ok     bool
	}{
		{types.ResultDodge, types.ClipDodging, true},
		{types.ResultHit, types.ClipHurt, true},
		{types.ResultBlock, types.ClipBlocking, true},
		{types.ResultParry, types.ClipBlocking, true},
		{types.ResultCounter, types.ClipBlocking, true},
		{types.ResultCounterCrit, types.ClipBlocking, true},
		{types.ResultRiposte, types.ClipBlocking, true},
		{types.ResultRiposteCrit, types.ClipBlocking, true},
		{types.ResultAttack, types.ClipAttacking, true},
		{types.ResultCrit, types.ClipAttacking, true},
		{types.ResultMiss, "", false},
		{types.ResultType(42), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.result.String(), func(t *testing.T) {
			clip, ok := r.ReactionClip(tt.result)
			if clip != tt.clip || ok != tt.ok {
				t.Errorf("ReactionClip(%s) = %q, %v, 期望 %q, %v", tt.result, clip, ok, tt.clip, tt.ok)
			}
		})
	}

	if got := r.ResultsForClip(types.ClipBlocking); len(got) != 6 {
		t.Errorf("ResultsForClip(blocking) = %v, 期望 6 个类别", got)
	}
}
