package components

import "image/color"

// LabelComponent 常驻文字（倒计时、胜利横幅），由回放引擎通过补间驱动
type LabelComponent struct {
	Text     string
	Color    color.RGBA
	FontSize float64
	Alpha    float64
	Outline  bool
}
