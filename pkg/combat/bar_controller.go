package combat

import (
	"math"
	"time"

	"github.com/decker502/duel/pkg/timeline"
	"github.com/decker502/duel/pkg/types"
	"github.com/decker502/duel/pkg/utils"
)

// Resource 血条上跟踪的资源
type Resource int

const (
	ResourceHealth Resource = iota
	ResourceStamina
)

func (r Resource) String() string {
	if r == ResourceStamina {
		return "stamina"
	}
	return "health"
}

// Vitals 一方的上限值
type Vitals struct {
	Health  int
	Stamina int
}

// ParticipantState 一方的展示状态
// Displayed 向 Committed 补间；Committed 在一次回放内只减不增
type ParticipantState struct {
	DisplayedHealth  float64
	CommittedHealth  float64
	MaxHealth        float64
	DisplayedStamina float64
	CommittedStamina float64
	MaxStamina       float64
}

// BarRenderer 把填充比例画出来
type BarRenderer interface {
	SetFill(side types.Side, res Resource, ratio float64)
}

// StatPanel 接收补间过程中的数值（属性面板上的 HP / STAM 行）
type StatPanel interface {
	SetVitals(health, maxHealth, stamina, maxStamina float64)
}

// tweener 由 Scope 实现；测试中也可以直接传 Stage
type tweener interface {
	Tween(spec timeline.TweenSpec) timeline.Handle
}

// BarController 血条/体力条的唯一写入者
type BarController struct {
	tw       tweener
	renderer BarRenderer
	duration time.Duration
	ease     utils.EasingFunc

	states   [2]ParticipantState
	panels   [2]StatPanel
	inFlight [2][2]timeline.Handle
	maxima   [2]Vitals
}

// NewBarController 创建控制器；renderer 可以为 nil
func NewBarController(tw tweener, renderer BarRenderer, duration time.Duration) *BarController {
	return &BarController{
		tw:       tw,
		renderer: renderer,
		duration: duration,
		ease:     utils.EaseOutCubic,
	}
}

// AttachPanel 为一方挂上属性面板
func (b *BarController) AttachPanel(side types.Side, panel StatPanel) {
	b.panels[side.Index()] = panel
	b.pushPanel(side)
}

// Initialize 双方的展示值与提交值都设为上限
func (b *BarController) Initialize(p1Max, p2Max Vitals) {
	b.maxima = [2]Vitals{p1Max, p2Max}
	b.cancelAll()
	for _, side := range types.Sides {
		m := b.maxima[side.Index()]
		b.states[side.Index()] = ParticipantState{
			DisplayedHealth:  float64(m.Health),
			CommittedHealth:  float64(m.Health),
			MaxHealth:        float64(m.Health),
			DisplayedStamina: float64(m.Stamina),
			CommittedStamina: float64(m.Stamina),
			MaxStamina:       float64(m.Stamina),
		}
		b.render(side)
	}
}

// Reset 恢复到上一次 Initialize 的上限
func (b *BarController) Reset() {
	b.Initialize(b.maxima[0], b.maxima[1])
}

// Displayed 当前展示的生命与体力（可能处在补间中途）
func (b *BarController) Displayed(side types.Side) (health, stamina float64) {
	st := b.states[side.Index()]
	return st.DisplayedHealth, st.DisplayedStamina
}

// State 一方的完整展示状态
func (b *BarController) State(side types.Side) ParticipantState {
	return b.states[side.Index()]
}

// Commit 提交新值，四个量各自独立补间
// 新补间总是从当前展示值出发，不会叠加；超出 [0, 已提交值] 的请求被截断
func (b *BarController) Commit(p1Health, p2Health, p1Stamina, p2Stamina float64) {
	targets := [2][2]float64{
		{p1Health, p1Stamina},
		{p2Health, p2Stamina},
	}
	for _, side := range types.Sides {
		i := side.Index()
		st := &b.states[i]
		st.CommittedHealth = clampCommit(targets[i][ResourceHealth], st.CommittedHealth)
		st.CommittedStamina = clampCommit(targets[i][ResourceStamina], st.CommittedStamina)

		b.startTween(side, ResourceHealth, st.DisplayedHealth, st.CommittedHealth)
		b.startTween(side, ResourceStamina, st.DisplayedStamina, st.CommittedStamina)
	}
}

// clampCommit 资源只减不增
func clampCommit(v, committed float64) float64 {
	if math.IsNaN(v) {
		return committed
	}
	return utils.Clamp(v, 0, committed)
}

func (b *BarController) startTween(side types.Side, res Resource, from, to float64) {
	i := side.Index()
	if h := b.inFlight[i][res]; h != nil {
		h.Cancel()
		b.inFlight[i][res] = nil
	}
	b.inFlight[i][res] = b.tw.Tween(timeline.TweenSpec{
		From:     from,
		To:       to,
		Duration: b.duration,
		Ease:     b.ease,
		OnUpdate: func(v float64) {
			b.setDisplayed(side, res, v)
		},
		OnComplete: func() {
			b.inFlight[i][res] = nil
		},
	})
}

func (b *BarController) setDisplayed(side types.Side, res Resource, v float64) {
	st := &b.states[side.Index()]
	if res == ResourceHealth {
		st.DisplayedHealth = utils.Clamp(v, 0, st.MaxHealth)
	} else {
		st.DisplayedStamina = utils.Clamp(v, 0, st.MaxStamina)
	}
	b.render(side)
}

func (b *BarController) render(side types.Side) {
	st := b.states[side.Index()]
	if b.renderer != nil {
		b.renderer.SetFill(side, ResourceHealth, ratio(st.DisplayedHealth, st.MaxHealth))
		b.renderer.SetFill(side, ResourceStamina, ratio(st.DisplayedStamina, st.MaxStamina))
	}
	b.pushPanel(side)
}

func (b *BarController) pushPanel(side types.Side) {
	panel := b.panels[side.Index()]
	if panel == nil {
		return
	}
	st := b.states[side.Index()]
	panel.SetVitals(st.DisplayedHealth, st.MaxHealth, st.DisplayedStamina, st.MaxStamina)
}

func (b *BarController) cancelAll() {
	for i := range b.inFlight {
		for r := range b.inFlight[i] {
			if h := b.inFlight[i][r]; h != nil {
				h.Cancel()
			}
			b.inFlight[i][r] = nil
		}
	}
}

func ratio(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return utils.Clamp(v/limit, 0, 1)
}
