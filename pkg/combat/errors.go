package combat

import "errors"

// 回放错误
// 加载或启动阶段返回，调用方用 errors.Is 判断
var (
	// ErrEmptyLog 对战记录没有任何回合
	ErrEmptyLog = errors.New("combat log has no actions")

	// ErrMissingField 对战记录缺少必填字段
	ErrMissingField = errors.New("combat log is missing a required field")

	// ErrInvalidAction 回合数据非法（负伤害、负体力消耗等）
	ErrInvalidAction = errors.New("combat log contains an invalid action")

	// ErrUnknownWinner 胜者 ID 不是任何一名参战者
	ErrUnknownWinner = errors.New("winner is neither participant")

	// ErrNotReady 尚未加载对战记录，或依赖未注入
	ErrNotReady = errors.New("playback engine not ready")

	// ErrCannotStart 数据源失败，回放无法开始
	ErrCannotStart = errors.New("cannot start playback")
)
