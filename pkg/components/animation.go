package components

import "github.com/hajimehoshi/ebiten/v2"

// AnimationComponent 管理基于 spritesheet 的帧动画
// 一个角色同一时间只播放一个片段，切换片段时整体替换字段
type AnimationComponent struct {
	Clip       string        // 当前片段注册名（玩家2 带后缀）
	Base       string        // 片段基础名，用于判断层级
	Sheet      *ebiten.Image // 精灵图，nil 时绘制占位图形
	StartFrame int           // 片段在精灵图中的起始帧
	FrameCount int           // 片段帧数
	FPS        float64       // 播放帧率
	Elapsed    float64       // 已播放时间(秒)
	IsLooping  bool          // 是否循环播放
	IsFinished bool          // 一次性片段是否已播完

	// OnComplete 一次性片段播完时调用一次，调用前清空
	// 被新片段取代的旧片段不会调用
	OnComplete func()
}

// CurrentFrame 当前应显示的帧（相对片段起点）
func (a *AnimationComponent) CurrentFrame() int {
	if a.FrameCount <= 0 || a.FPS <= 0 {
		return 0
	}
	n := int(a.Elapsed * a.FPS)
	if a.IsLooping {
		return n % a.FrameCount
	}
	if n >= a.FrameCount {
		return a.FrameCount - 1
	}
	return n
}

// Duration 一次性播放的时长(秒)
func (a *AnimationComponent) Duration() float64 {
	if a.FrameCount <= 0 || a.FPS <= 0 {
		return 0
	}
	return float64(a.FrameCount) / a.FPS
}
