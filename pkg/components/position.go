package components

// PositionComponent 实体在屏幕上的位置
// 角色：脚底中点；文字：中心点；血条与面板：左上角
type PositionComponent struct {
	X float64
	Y float64
}
