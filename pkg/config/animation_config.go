package config

import (
	"fmt"

	"github.com/decker502/duel/pkg/types"
)

// AnimationConfigPath 角色动画目录的默认位置
const AnimationConfigPath = "data/config/animations.yaml"

// AnimationConfig 角色动画片段目录
type AnimationConfig struct {
	// DefaultFPS 资源没有提供帧率元数据时使用
	DefaultFPS float64 `yaml:"default_fps"`

	// Player2Suffix 玩家2 片段名的后缀，避免两名角色的片段重名
	Player2Suffix string `yaml:"player2_suffix"`

	// FrameWidth / FrameHeight 精灵图中单帧的尺寸
	FrameWidth  int `yaml:"frame_width"`
	FrameHeight int `yaml:"frame_height"`

	Clips []ClipDef `yaml:"clips"`

	// Background 舞台背景图层，由远到近绘制并拉伸到整个画面；为空时画纯色背景
	Background []string `yaml:"background"`
}

// ClipDef 单个片段
type ClipDef struct {
	Name   string `yaml:"name"`
	Frames int    `yaml:"frames"`
	// Start 在精灵图中的起始帧序号
	Start int  `yaml:"start"`
	Loop  bool `yaml:"loop"`
}

// DefaultAnimationConfig 内置的片段目录
func DefaultAnimationConfig() *AnimationConfig {
	return &AnimationConfig{
		DefaultFPS:    24,
		Player2Suffix: "2",
		FrameWidth:    256,
		FrameHeight:   256,
		Clips: []ClipDef{
			{Name: types.ClipIdle, Start: 0, Frames: 18, Loop: true},
			{Name: types.ClipWalking, Start: 18, Frames: 12, Loop: true},
			{Name: types.ClipRunning, Start: 30, Frames: 12, Loop: true},
			{Name: types.ClipAttacking, Start: 42, Frames: 12},
			{Name: types.ClipBlocking, Start: 54, Frames: 12},
			{Name: types.ClipDying, Start: 66, Frames: 15},
			{Name: types.ClipHurt, Start: 81, Frames: 12},
			{Name: types.ClipDodging, Start: 93, Frames: 6},
			{Name: types.ClipTaunting, Start: 99, Frames: 12},
		},
	}
}

// LoadAnimationConfig 加载动画目录
func LoadAnimationConfig(path string) (*AnimationConfig, error) {
	cfg := DefaultAnimationConfig()
	if err := loadYAML(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置文件 %s 验证失败: %w", path, err)
	}
	return cfg, nil
}

// Validate 目录必须覆盖全部 9 个片段且帧数为正
func (c *AnimationConfig) Validate() error {
	if c.DefaultFPS <= 0 {
		return fmt.Errorf("default_fps 必须大于 0: %v", c.DefaultFPS)
	}
	if c.Player2Suffix == "" {
		return fmt.Errorf("player2_suffix 不能为空")
	}

	seen := make(map[string]bool, len(c.Clips))
	for i, clip := range c.Clips {
		if clip.Name == "" {
			return fmt.Errorf("片段 #%d 缺少 'name' 字段", i)
		}
		if seen[clip.Name] {
			return fmt.Errorf("片段 '%s' 重复定义", clip.Name)
		}
		if clip.Frames <= 0 {
			return fmt.Errorf("片段 '%s' 的帧数必须大于 0: %d", clip.Name, clip.Frames)
		}
		if clip.Start < 0 {
			return fmt.Errorf("片段 '%s' 的起始帧不能为负数: %d", clip.Name, clip.Start)
		}
		seen[clip.Name] = true
	}

	for _, name := range types.AllClips {
		if !seen[name] {
			return fmt.Errorf("缺少片段 '%s'", name)
		}
	}
	return nil
}

// Clip 按名称查找片段定义
func (c *AnimationConfig) Clip(name string) (ClipDef, bool) {
	for _, clip := range c.Clips {
		if clip.Name == name {
			return clip, true
		}
	}
	return ClipDef{}, false
}
