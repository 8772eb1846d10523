package utils

import (
	"fmt"
	"math"
)

// EasingFunc 缓动函数
// 接受进度 t ∈ [0, 1]，返回缓动后的进度（BackOut 中途会略微超过 1）
type EasingFunc func(t float64) float64

// EaseLinear 匀速
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutQuad 二次方缓出，f(t) = 1 - (1-t)²
// 对应配置名 "Power1"
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseOutCubic 三次方缓出，f(t) = 1 - (1-t)³
// 对应配置名 "Power2"，血条、标题滑入都用它
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic 三次方缓入缓出
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// backOvershoot BackOut 的回弹系数
const backOvershoot = 1.70158

// EaseOutBack 回弹缓出：先冲过终点再落回
// 公式：f(t) = 1 + (c+1)(t-1)³ + c(t-1)²
func EaseOutBack(t float64) float64 {
	c3 := backOvershoot + 1
	u := t - 1
	return 1 + c3*u*u*u + backOvershoot*u*u
}

var easingByName = map[string]EasingFunc{
	"Linear":  EaseLinear,
	"Power0":  EaseLinear,
	"Power1":  EaseOutQuad,
	"Power2":  EaseOutCubic,
	"InOut":   EaseInOutCubic,
	"BackOut": EaseOutBack,
}

// EasingByName 按配置文件中的名字查找缓动函数
// 空字符串返回 EaseLinear
func EasingByName(name string) (EasingFunc, error) {
	if name == "" {
		return EaseLinear, nil
	}
	fn, ok := easingByName[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing %q", name)
	}
	return fn, nil
}

// Lerp 线性插值，t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp 把 v 限制在 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
