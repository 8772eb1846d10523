package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a game scene (e.g., the fight scene).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// FocusAware 可选接口：窗口焦点变化时收到通知
//
// 浏览器切换标签页或桌面窗口失去焦点时，正在播放的音效可能残留或重叠，
// 场景借此停止所有音效。
type FocusAware interface {
	OnFocusLost()
	OnFocusGained()
}

// Exitable 可选接口：场景被替换或程序关闭时调用
// 用于停止背景音乐、释放播放器
type Exitable interface {
	OnExit()
}
