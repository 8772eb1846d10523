package components

import "github.com/decker502/duel/pkg/types"

// StatPanelComponent 参战者属性面板
// 入场时从屏幕外滑入，HP / STAM 两行跟随血条补间实时更新
type StatPanelComponent struct {
	Side    types.Side
	HiddenX float64
	ShownX  float64

	Revealed bool
	Elapsed  float64 // 滑入已进行的时间(秒)
	Duration float64 // 滑入时长(秒)

	// Lines 固定的属性行（武器、护甲、战绩 ...）
	Lines []string

	Health     float64
	MaxHealth  float64
	Stamina    float64
	MaxStamina float64
}
