package combat_test

import (
	"math"
	"testing"
	"time"

	"github.com/decker502/duel/pkg/combat"
	"github.com/decker502/duel/pkg/stage"
	"github.com/decker502/duel/pkg/timeline"
	"github.com/decker502/duel/pkg/types"
)

type panelRecorder struct {
	calls [][4]float64
}

func (p *panelRecorder) SetVitals(health, maxHealth, stamina, maxStamina float64) {
	p.calls = append(p.calls, [4]float64{health, maxHealth, stamina, maxStamina})
}

func (p *panelRecorder) last() [4]float64 {
	return p.calls[len(p.calls)-1]
}

func newBars() (*combat.BarController, *stage.Headless, *timeline.Timeline) {
	tl := timeline.New()
	h := stage.NewHeadless(tl, nil)
	bars := combat.NewBarController(h, h, 500*time.Millisecond)
	bars.Initialize(combat.Vitals{Health: 100, Stamina: 50}, combat.Vitals{Health: 60, Stamina: 40})
	return bars, h, tl
}

// TestBarInitialize 初始化后展示值、提交值都等于上限
func TestBarInitialize(t *testing.T) {
	bars, h, _ := newBars()
	st := bars.State(types.SidePlayer2)
	want := combat.ParticipantState{
		DisplayedHealth: 60, CommittedHealth: 60, MaxHealth: 60,
		DisplayedStamina: 40, CommittedStamina: 40, MaxStamina: 40,
	}
	if st != want {
		t.Errorf("state = %+v, want %+v", st, want)
	}
	if h.Fill(types.SidePlayer2, combat.ResourceStamina) != 1 {
		t.Error("bars should render full")
	}
}

// TestBarRestartMidFlight 补间中途再次提交：从当前展示值出发，不叠加
func TestBarRestartMidFlight(t *testing.T) {
	bars, h, tl := newBars()

	bars.Commit(80, 60, 50, 40)
	tl.Advance(250 * time.Millisecond)
	mid, _ := bars.Displayed(types.SidePlayer1)
	if mid <= 80 || mid >= 100 {
		t.Fatalf("mid-flight health = %v", mid)
	}

	bars.Commit(40, 60, 50, 40)
	if got, _ := bars.Displayed(types.SidePlayer1); got != mid {
		t.Errorf("restart jumped from %v to %v", mid, got)
	}

	tl.Advance(499 * time.Millisecond)
	got, _ := bars.Displayed(types.SidePlayer1)
	if got <= 40 || got >= mid {
		t.Errorf("second tween at 499ms = %v, want within (40, %v)", got, mid)
	}

	tl.Advance(time.Millisecond)
	if got, _ := bars.Displayed(types.SidePlayer1); got != 40 {
		t.Errorf("final displayed = %v, want 40", got)
	}
	if h.Fill(types.SidePlayer1, combat.ResourceHealth) != 0.4 {
		t.Errorf("fill = %v, want 0.4", h.Fill(types.SidePlayer1, combat.ResourceHealth))
	}
	if tl.Pending() != 0 {
		t.Errorf("%d timers left after tweens finished", tl.Pending())
	}
}

// TestBarCommitClamp 提交值被截断到 [0, 已提交值]
func TestBarCommitClamp(t *testing.T) {
	tests := []struct {
		name   string
		commit float64
		want   float64
	}{
		{"增加被拒绝", 150, 100},
		{"负数截断为 0", -20, 0},
		{"NaN 保持原值", math.NaN(), 100},
		{"正常减少", 35, 35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars, _, tl := newBars()
			bars.Commit(tt.commit, 60, 50, 40)
			tl.Advance(time.Second)

			st := bars.State(types.SidePlayer1)
			if st.CommittedHealth != tt.want || st.DisplayedHealth != tt.want {
				t.Errorf("committed/displayed = %v/%v, want %v", st.CommittedHealth, st.DisplayedHealth, tt.want)
			}
		})
	}
}

// TestBarNeverRises 已经下降的值不能被后续提交抬高
func TestBarNeverRises(t *testing.T) {
	bars, _, tl := newBars()
	bars.Commit(70, 30, 45, 20)
	tl.Advance(time.Second)
	bars.Commit(90, 50, 50, 40)
	tl.Advance(time.Second)

	p1, p2 := bars.State(types.SidePlayer1), bars.State(types.SidePlayer2)
	if p1.CommittedHealth != 70 || p1.CommittedStamina != 45 || p2.CommittedHealth != 30 || p2.CommittedStamina != 20 {
		t.Errorf("values rose: p1 %+v p2 %+v", p1, p2)
	}
}

// TestBarPanels 属性面板挂上时立即同步，补间过程中持续更新
func TestBarPanels(t *testing.T) {
	bars, _, tl := newBars()
	panel := &panelRecorder{}
	bars.AttachPanel(types.SidePlayer2, panel)

	if len(panel.calls) != 1 || panel.last() != [4]float64{60, 60, 40, 40} {
		t.Fatalf("attach push = %v", panel.calls)
	}

	bars.Commit(100, 30, 50, 10)
	tl.Advance(250 * time.Millisecond)
	mid := panel.last()
	if mid[0] <= 30 || mid[0] >= 60 || mid[1] != 60 {
		t.Errorf("mid-tween panel = %v", mid)
	}

	tl.Advance(250 * time.Millisecond)
	if got := panel.last(); got != [4]float64{30, 60, 10, 40} {
		t.Errorf("final panel = %v", got)
	}

	bars.Reset()
	if got := panel.last(); got != [4]float64{60, 60, 40, 40} {
		t.Errorf("panel after reset = %v", got)
	}
}

// TestBarResetCancelsTweens 重置后进行中的补间不再写入
func TestBarResetCancelsTweens(t *testing.T) {
	bars, h, tl := newBars()
	bars.Commit(10, 10, 10, 10)
	tl.Advance(100 * time.Millisecond)
	bars.Reset()
	tl.Advance(time.Second)

	if got, _ := bars.Displayed(types.SidePlayer1); got != 100 {
		t.Errorf("displayed = %v, want 100", got)
	}
	if h.Fill(types.SidePlayer2, combat.ResourceHealth) != 1 {
		t.Error("renderer should show full bars after reset")
	}
}

// TestBarZeroMaximum 上限为 0 时填充比例为 0
func TestBarZeroMaximum(t *testing.T) {
	tl := timeline.New()
	h := stage.NewHeadless(tl, nil)
	bars := combat.NewBarController(h, h, 500*time.Millisecond)
	bars.Initialize(combat.Vitals{}, combat.Vitals{Health: 10, Stamina: 10})
	if h.Fill(types.SidePlayer1, combat.ResourceHealth) != 0 {
		t.Errorf("fill = %v, want 0", h.Fill(types.SidePlayer1, combat.ResourceHealth))
	}
}
