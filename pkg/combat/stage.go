package combat

import (
	"time"

	"github.com/decker502/duel/pkg/timeline"
	"github.com/decker502/duel/pkg/types"
)

// TextStyle 飘字样式，决定颜色
type TextStyle int

const (
	TextDamage    TextStyle = iota // 红
	TextBlock                      // 蓝，Block! / Parry!
	TextDodge                      // 青
	TextMiss                       // 白
	TextCounter                    // 绿，Counter! / Riposte!
	TextExhausted                  // 橙
)

func (s TextStyle) String() string {
	switch s {
	case TextDamage:
		return "damage"
	case TextBlock:
		return "block"
	case TextDodge:
		return "dodge"
	case TextMiss:
		return "miss"
	case TextCounter:
		return "counter"
	case TextExhausted:
		return "exhausted"
	}
	return "unknown"
}

// LabelStyle 常驻文字（倒计时、胜利横幅）的样式
type LabelStyle int

const (
	LabelCountdown LabelStyle = iota
	LabelCountdownFinal
	LabelVictoryTitle
	LabelVictoryName
)

// Label 可动画的文字对象
type Label interface {
	SetAlpha(alpha float64)
	SetScale(scale float64)
	SetPosition(x, y float64)
	Destroy()
}

// Stage 回放引擎需要的渲染能力
//
// 实现方负责：片段播放与完成回调、补间与延迟调用（共享同一时钟）、飘字、
// 文字对象、角色位置与朝向。ebiten 场景和无界面测试舞台都实现它。
type Stage interface {
	// PlayClip 在一方角色上播放已注册的片段
	// 一次性片段结束时调用 onComplete；循环片段不会调用。
	// 新片段会取代旧片段，旧片段的 onComplete 不再触发。
	// 片段不存在时打印警告，并在下一次调度时调用 onComplete。
	PlayClip(side types.Side, clip string, onComplete func())

	After(d time.Duration, fn func()) timeline.Handle
	Tween(spec timeline.TweenSpec) timeline.Handle

	// ShowText 显示会自动上浮淡出的文字
	ShowText(x, y float64, text string, style TextStyle, scale float64, emphasized bool)

	NewLabel(text string, x, y float64, style LabelStyle) Label

	// ActorPosition 返回角色脚底中点
	ActorPosition(side types.Side) (x, y float64)
	SetActorX(side types.Side, x float64)
	// SetFacing away=true 表示背对对手
	SetFacing(side types.Side, away bool)

	// RevealStatPanel 属性面板滑入；HideStatPanels 立即收回
	RevealStatPanel(side types.Side)
	HideStatPanels()

	Center() (x, y float64)
}

// ClipCatalog 片段目录（见 game.AnimationRegistry）
type ClipCatalog interface {
	// ClipName 返回一方某个基础片段的注册名（玩家2 带后缀）
	ClipName(side types.Side, clip string) string
	// ReactionClip 结果类别对应的反应片段，MISS 与未知类别返回 false
	ReactionClip(result types.ResultType) (string, bool)
}

// CuePlayer 战斗音效（见 game.CombatAudio）
type CuePlayer interface {
	PlayAttackCue(isCrit, isMiss bool)
	PlayDefenseCue(result types.ResultType)
	StopAll()
}
