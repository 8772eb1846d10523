package components

import "image/color"

// FloatingTextComponent 上浮并淡出的战斗飘字
// 生命周期由 LifetimeComponent 控制，位置与透明度按其进度计算
type FloatingTextComponent struct {
	Text       string
	Color      color.RGBA
	StartY     float64 // 出现时的 Y
	Rise       float64 // 生命周期内上升的像素
	FontSize   float64
	Emphasized bool // 暴击：描边加粗
	Alpha      float64
}
