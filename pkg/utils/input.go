// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Command 一帧内识别出的回放指令
type Command int

const (
	CommandNone  Command = iota
	CommandStart         // 开始回放
	CommandReset         // 重置并重新开始
)

func (c Command) String() string {
	switch c {
	case CommandStart:
		return "start"
	case CommandReset:
		return "reset"
	}
	return "none"
}

// KeyReader 报告某个键是否在本帧刚刚按下
type KeyReader func(key ebiten.Key) bool

// CommandFromKeys 键盘映射：F / Enter 开始，R 重置；同一帧同时按下时重置优先
func CommandFromKeys(justPressed KeyReader) Command {
	if justPressed(ebiten.KeyR) {
		return CommandReset
	}
	if justPressed(ebiten.KeyF) || justPressed(ebiten.KeyEnter) {
		return CommandStart
	}
	return CommandNone
}

// PollCommand 读取本帧的键盘与指针输入
// 没有键盘的设备（手机、浏览器触屏）点击屏幕即开始
func PollCommand() Command {
	if cmd := CommandFromKeys(inpututil.IsKeyJustPressed); cmd != CommandNone {
		return cmd
	}
	if pressed, _, _ := IsJustTouchedOrClicked(); pressed {
		return CommandStart
	}
	return CommandNone
}

// SettingsCommand 运行中调整用户设置的按键指令
type SettingsCommand int

const (
	SettingsNone        SettingsCommand = iota
	SettingsToggleMusic                 // M
	SettingsToggleSound                 // S
	SettingsVolumeUp                    // = / 小键盘 +
	SettingsVolumeDown                  // - / 小键盘 -
)

func (c SettingsCommand) String() string {
	switch c {
	case SettingsToggleMusic:
		return "toggle-music"
	case SettingsToggleSound:
		return "toggle-sound"
	case SettingsVolumeUp:
		return "volume-up"
	case SettingsVolumeDown:
		return "volume-down"
	}
	return "none"
}

// SettingsCommandFromKeys 设置键映射；一帧只处理一个，按上面的顺序优先
func SettingsCommandFromKeys(justPressed KeyReader) SettingsCommand {
	switch {
	case justPressed(ebiten.KeyM):
		return SettingsToggleMusic
	case justPressed(ebiten.KeyS):
		return SettingsToggleSound
	case justPressed(ebiten.KeyEqual) || justPressed(ebiten.KeyNumpadAdd):
		return SettingsVolumeUp
	case justPressed(ebiten.KeyMinus) || justPressed(ebiten.KeyNumpadSubtract):
		return SettingsVolumeDown
	}
	return SettingsNone
}

// PollSettingsCommand 读取本帧的设置键
func PollSettingsCommand() SettingsCommand {
	return SettingsCommandFromKeys(inpututil.IsKeyJustPressed)
}

// IsJustTouchedOrClicked 检查是否刚刚发生点击或触摸
// 返回是否点击以及点击位置
func IsJustTouchedOrClicked() (bool, int, int) {
	// 检查触摸
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	// 检查鼠标
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}
