package config

// 布局配置常量
// 本文件定义对战舞台上的布局参数：窗口、角色站位、血条、属性面板
// 所有坐标都是逻辑分辨率下的屏幕坐标

// 窗口
const (
	ScreenWidth  = 960
	ScreenHeight = 540

	// StageCenterX 舞台中心，入场终点与胜利横幅都以它为基准
	StageCenterX = ScreenWidth / 2.0
	StageCenterY = ScreenHeight / 2.0
)

// 角色站位
const (
	// Player1StartX / Player2StartX 开场站位（重置时回到这里）
	Player1StartX = 125.0
	Player2StartX = 835.0

	// ActorBaselineY 角色脚底所在的 Y 坐标（精灵以底部中点为锚点）
	ActorBaselineY = 520.0

	// ActorDisplaySize 角色精灵显示尺寸（正方形）
	ActorDisplaySize = 300.0

	// ActorDepth / ActorFrontDepth 正常层级与出招/格挡时的前置层级
	ActorDepth      = 5
	ActorFrontDepth = 6
)

// 血条与体力条
const (
	HealthBarWidth   = 400.0
	HealthBarHeight  = 26.0
	StaminaBarWidth  = 300.0
	StaminaBarHeight = 15.0
	BarTopY          = 40.0
	BarGap           = 8.0
	BarNudge         = 3.0

	// Player1BarX 玩家1 血条左边缘，玩家1 的条从右往左缩
	Player1BarX = StageCenterX - 420
	// Player2BarX 玩家2 血条左边缘，玩家2 的条从左往右缩
	Player2BarX = StageCenterX + 20

	// NameLabelOffsetY 名字标签在血条上方的距离
	NameLabelOffsetY = 30.0
)

// 属性面板
const (
	StatPanelWidth   = 160.0
	StatPanelTopY    = 160.0
	StatPanelPadding = 12.0
	StatPanelRowGap  = 14.0

	// StatPanelSlideSeconds 面板滑入时长
	StatPanelSlideSeconds = 0.5
)

// GetBarOrigin 返回一方血条（health）与体力条（stamina）的左上角
func GetBarOrigin(player2 bool) (healthX, healthY, staminaX, staminaY float64) {
	healthY = BarTopY
	staminaY = BarTopY + HealthBarHeight + BarGap
	if player2 {
		return Player2BarX, healthY, Player2BarX + BarNudge, staminaY
	}
	return Player1BarX, healthY, Player1BarX + HealthBarWidth - StaminaBarWidth - BarNudge, staminaY
}

// GetStatPanelX 返回属性面板的隐藏位置与展开位置（从屏幕外滑入）
func GetStatPanelX(player2 bool) (hiddenX, shownX float64) {
	if player2 {
		return ScreenWidth, ScreenWidth - StatPanelWidth
	}
	return -StatPanelWidth, 0
}
