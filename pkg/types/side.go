// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// Side 标识对战中的一方
// 玩家1 站在舞台左侧，玩家2 站在右侧并默认水平翻转
type Side int

const (
	// SidePlayer1 左侧参战者
	SidePlayer1 Side = iota
	// SidePlayer2 右侧参战者
	SidePlayer2
)

// Sides 按固定顺序列出双方，遍历时保证确定性
var Sides = [2]Side{SidePlayer1, SidePlayer2}

// Opponent 返回对手一方
func (s Side) Opponent() Side {
	if s == SidePlayer1 {
		return SidePlayer2
	}
	return SidePlayer1
}

// IsPlayer2 是否为右侧参战者
func (s Side) IsPlayer2() bool {
	return s == SidePlayer2
}

// Index 返回数组下标（0 或 1）
func (s Side) Index() int {
	if s == SidePlayer2 {
		return 1
	}
	return 0
}

// String 返回一方的字符串表示
func (s Side) String() string {
	if s == SidePlayer2 {
		return "Player 2"
	}
	return "Player 1"
}
