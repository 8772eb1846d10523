package components

import "github.com/decker502/duel/pkg/types"

// ActorComponent 标记一名参战者
type ActorComponent struct {
	Side types.Side
	// FacingAway true 表示背对对手（胜利后走开）
	FacingAway bool
	// Depth 绘制层级，出招/格挡时前置
	Depth int
	// Size 显示尺寸（正方形边长）
	Size float64
}

// FacesLeft 精灵默认朝右；玩家2 面对对手时朝左
func (a *ActorComponent) FacesLeft() bool {
	return a.Side.IsPlayer2() != a.FacingAway
}
