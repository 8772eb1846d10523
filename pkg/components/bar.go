package components

import (
	"image/color"

	"github.com/decker502/duel/pkg/types"
)

// BarKind 条的种类
type BarKind int

const (
	BarHealth BarKind = iota
	BarStamina
)

// BarComponent 血条 / 体力条
// 填充比例只由 BarController 通过 SetFill 写入
type BarComponent struct {
	Side   types.Side
	Kind   BarKind
	Width  float64
	Height float64
	Fill   float64 // [0, 1]
	Color  color.RGBA
	// AnchorRight 填充靠右对齐（玩家1 的条从右往左缩，靠近中线一侧保留）
	AnchorRight bool
}

// FilledRect 填充部分相对条左上角的偏移与宽度
func (b *BarComponent) FilledRect() (offsetX, width float64) {
	fill := b.Fill
	if fill < 0 {
		fill = 0
	}
	if fill > 1 {
		fill = 1
	}
	width = b.Width * fill
	if b.AnchorRight {
		return b.Width - width, width
	}
	return 0, width
}
