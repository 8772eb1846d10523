// Package stage 提供无界面的 combat.Stage 实现
//
// Headless 把所有调度放在一条 timeline 上：一次性片段在 frames/fps 秒后完成，
// 补间与延迟调用和游戏中完全一样。它不画任何东西，只按顺序记录演出事件，
// 供测试与 cmd/verify_combat 比对。
package stage

import (
	"fmt"
	"log"
	"time"

	"github.com/decker502/duel/pkg/combat"
	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/game"
	"github.com/decker502/duel/pkg/timeline"
	"github.com/decker502/duel/pkg/types"
)

// EventKind 事件类型
type EventKind int

const (
	EventClip EventKind = iota
	EventText
	EventLabel
	EventFacing
	EventPanelReveal
	EventPanelHide
)

func (k EventKind) String() string {
	switch k {
	case EventClip:
		return "clip"
	case EventText:
		return "text"
	case EventLabel:
		return "label"
	case EventFacing:
		return "facing"
	case EventPanelReveal:
		return "panel"
	case EventPanelHide:
		return "hide-panels"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event 一条演出记录
type Event struct {
	At         time.Duration
	Kind       EventKind
	Side       types.Side
	Name       string // 片段名 / 文字内容
	Style      combat.TextStyle
	Scale      float64
	Emphasized bool
	Away       bool
	X, Y       float64
}

func (e Event) String() string {
	at := fmt.Sprintf("[%8.3fs]", e.At.Seconds())
	switch e.Kind {
	case EventClip:
		return fmt.Sprintf("%s clip   %s %s", at, e.Side, e.Name)
	case EventText:
		crit := ""
		if e.Emphasized {
			crit = " crit"
		}
		return fmt.Sprintf("%s text   %q %s x%.2f%s @(%.0f,%.0f)", at, e.Name, e.Style, e.Scale, crit, e.X, e.Y)
	case EventLabel:
		return fmt.Sprintf("%s label  %q @(%.0f,%.0f)", at, e.Name, e.X, e.Y)
	case EventFacing:
		return fmt.Sprintf("%s facing %s away=%t", at, e.Side, e.Away)
	case EventPanelReveal:
		return fmt.Sprintf("%s panel  %s", at, e.Side)
	}
	return fmt.Sprintf("%s %s", at, e.Kind)
}

// ClipLookup 片段目录（game.AnimationRegistry）
type ClipLookup interface {
	Lookup(name string) (game.ClipSpec, bool)
}

type actor struct {
	x, y       float64
	away       bool
	clip       string
	completion *timeline.Timer
}

// Headless 无界面舞台，同时实现 combat.BarRenderer
type Headless struct {
	tl     *timeline.Timeline
	clips  ClipLookup
	actors [2]actor
	fills  [2][2]float64
	panels [2]bool
	labels []*Label
	events []Event
}

// NewHeadless 创建舞台，双方站在开场位置
func NewHeadless(tl *timeline.Timeline, clips ClipLookup) *Headless {
	h := &Headless{tl: tl, clips: clips}
	h.actors[types.SidePlayer1.Index()] = actor{x: config.Player1StartX, y: config.ActorBaselineY}
	h.actors[types.SidePlayer2.Index()] = actor{x: config.Player2StartX, y: config.ActorBaselineY}
	for i := range h.fills {
		h.fills[i] = [2]float64{1, 1}
	}
	return h
}

// Timeline 舞台使用的时间线
func (h *Headless) Timeline() *timeline.Timeline {
	return h.tl
}

// PlayClip 播放片段；新片段取代旧片段，旧片段的完成回调不再触发
func (h *Headless) PlayClip(side types.Side, clip string, onComplete func()) {
	a := &h.actors[side.Index()]
	if a.completion != nil {
		a.completion.Cancel()
		a.completion = nil
	}
	h.record(Event{Kind: EventClip, Side: side, Name: clip})

	spec, ok := h.clips.Lookup(clip)
	if !ok {
		log.Printf("[Headless] Warning: clip %s not registered", clip)
		if onComplete != nil {
			a.completion = h.tl.After(0, onComplete)
		}
		return
	}
	a.clip = clip
	if spec.Loop || onComplete == nil {
		return
	}
	a.completion = h.tl.After(spec.Duration(), onComplete)
}

// After 延迟调用
func (h *Headless) After(d time.Duration, fn func()) timeline.Handle {
	return h.tl.After(d, fn)
}

// Tween 补间
func (h *Headless) Tween(spec timeline.TweenSpec) timeline.Handle {
	return h.tl.Tween(spec)
}

// ShowText 记录飘字
func (h *Headless) ShowText(x, y float64, text string, style combat.TextStyle, scale float64, emphasized bool) {
	h.record(Event{Kind: EventText, Name: text, Style: style, Scale: scale, Emphasized: emphasized, X: x, Y: y})
}

// NewLabel 记录并返回一个文字对象
func (h *Headless) NewLabel(text string, x, y float64, style combat.LabelStyle) combat.Label {
	l := &Label{Text: text, Style: style, X: x, Y: y, Alpha: 1, Scale: 1}
	h.labels = append(h.labels, l)
	h.record(Event{Kind: EventLabel, Name: text, X: x, Y: y})
	return l
}

// ActorPosition 角色脚底中点
func (h *Headless) ActorPosition(side types.Side) (x, y float64) {
	a := h.actors[side.Index()]
	return a.x, a.y
}

// SetActorX 移动角色（补间每帧调用，不记录事件）
func (h *Headless) SetActorX(side types.Side, x float64) {
	h.actors[side.Index()].x = x
}

// SetFacing 设置朝向
func (h *Headless) SetFacing(side types.Side, away bool) {
	h.actors[side.Index()].away = away
	h.record(Event{Kind: EventFacing, Side: side, Away: away})
}

// RevealStatPanel 显示属性面板
func (h *Headless) RevealStatPanel(side types.Side) {
	h.panels[side.Index()] = true
	h.record(Event{Kind: EventPanelReveal, Side: side})
}

// HideStatPanels 收起属性面板
func (h *Headless) HideStatPanels() {
	h.panels = [2]bool{}
	h.record(Event{Kind: EventPanelHide})
}

// Center 舞台中心
func (h *Headless) Center() (x, y float64) {
	return config.StageCenterX, config.StageCenterY
}

// SetFill 实现 combat.BarRenderer
func (h *Headless) SetFill(side types.Side, res combat.Resource, ratio float64) {
	h.fills[side.Index()][res] = ratio
}

// Fill 当前填充比例
func (h *Headless) Fill(side types.Side, res combat.Resource) float64 {
	return h.fills[side.Index()][res]
}

// CurrentClip 一方当前的片段
func (h *Headless) CurrentClip(side types.Side) string {
	return h.actors[side.Index()].clip
}

// FacingAway 一方是否背对对手
func (h *Headless) FacingAway(side types.Side) bool {
	return h.actors[side.Index()].away
}

// PanelVisible 属性面板是否显示
func (h *Headless) PanelVisible(side types.Side) bool {
	return h.panels[side.Index()]
}

// LiveLabels 尚未销毁的文字对象
func (h *Headless) LiveLabels() []*Label {
	var out []*Label
	for _, l := range h.labels {
		if !l.Destroyed {
			out = append(out, l)
		}
	}
	return out
}

// Events 按时间顺序的演出记录
func (h *Headless) Events() []Event {
	return h.events
}

// Texts 只取飘字记录
func (h *Headless) Texts() []Event {
	return h.Filter(EventText)
}

// Filter 按类型筛选记录
func (h *Headless) Filter(kind EventKind) []Event {
	var out []Event
	for _, e := range h.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// ClearEvents 清空记录（时间线不受影响）
func (h *Headless) ClearEvents() {
	h.events = nil
}

func (h *Headless) record(e Event) {
	e.At = h.tl.Now()
	h.events = append(h.events, e)
}

// Label 记录下来的文字对象
type Label struct {
	Text      string
	Style     combat.LabelStyle
	X, Y      float64
	Alpha     float64
	Scale     float64
	Destroyed bool
}

// SetAlpha 实现 combat.Label
func (l *Label) SetAlpha(alpha float64) {
	l.Alpha = alpha
}

// SetScale 实现 combat.Label
func (l *Label) SetScale(scale float64) {
	l.Scale = scale
}

// SetPosition 实现 combat.Label
func (l *Label) SetPosition(x, y float64) {
	l.X, l.Y = x, y
}

// Destroy 实现 combat.Label
func (l *Label) Destroy() {
	l.Destroyed = true
}
