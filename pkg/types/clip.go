package types

// 角色动画片段的基础名称
// 玩家2 的片段在注册时追加后缀，见 game.AnimationRegistry
const (
	ClipIdle      = "idle"
	ClipWalking   = "walking"
	ClipRunning   = "running"
	ClipAttacking = "attacking"
	ClipBlocking  = "blocking"
	ClipDying     = "dying"
	ClipHurt      = "hurt"
	ClipDodging   = "dodging"
	ClipTaunting  = "taunting"
)

// AllClips 注册顺序固定的片段目录
var AllClips = []string{
	ClipIdle,
	ClipWalking,
	ClipRunning,
	ClipAttacking,
	ClipBlocking,
	ClipDying,
	ClipHurt,
	ClipDodging,
	ClipTaunting,
}
