package config

import (
	"fmt"

	"github.com/decker502/duel/pkg/types"
)

// FighterConfig 参战者的展示数据
// 对战记录里 player1 / player2 两个块都解码成这个结构
type FighterConfig struct {
	ID   uint64 `yaml:"id"`
	Name string `yaml:"name"`

	MaxHealth    int `yaml:"max_health"`
	MaxEndurance int `yaml:"max_endurance"`

	// 属性面板展示用，不参与回放计算
	Weapon       string `yaml:"weapon"`
	Armor        string `yaml:"armor"`
	Stance       string `yaml:"stance"`
	Strength     int    `yaml:"strength"`
	Constitution int    `yaml:"constitution"`
	Size         int    `yaml:"size"`
	Agility      int    `yaml:"agility"`
	Stamina      int    `yaml:"stamina"`
	Luck         int    `yaml:"luck"`
	Wins         int    `yaml:"wins"`
	Losses       int    `yaml:"losses"`
	Kills        int    `yaml:"kills"`

	// SpriteSheet 精灵图路径（assets/ 下），为空时用占位图形
	SpriteSheet string `yaml:"sprite_sheet"`
	// FPS 每个片段的帧率元数据，缺省的片段用默认帧率
	FPS map[string]float64 `yaml:"fps"`
}

// DefaultMaxHealth / DefaultMaxEndurance 记录中未给出上限时使用
const (
	DefaultMaxHealth    = 100
	DefaultMaxEndurance = 50
)

// DisplayName 横幅与标签使用的名字
func (f FighterConfig) DisplayName(side types.Side) string {
	if f.Name != "" {
		return f.Name
	}
	return side.String()
}

// ApplyDefaults 补齐缺省的上限
func (f *FighterConfig) ApplyDefaults() {
	if f.MaxHealth == 0 {
		f.MaxHealth = DefaultMaxHealth
	}
	if f.MaxEndurance == 0 {
		f.MaxEndurance = DefaultMaxEndurance
	}
}

// Validate 检查 ID 与上限
func (f FighterConfig) Validate() error {
	if _, err := types.FighterKindOf(f.ID); err != nil {
		return err
	}
	if f.MaxHealth < 0 || f.MaxEndurance < 0 {
		return fmt.Errorf("fighter %d: max values cannot be negative (health=%d, endurance=%d)",
			f.ID, f.MaxHealth, f.MaxEndurance)
	}
	for clip, fps := range f.FPS {
		if fps <= 0 {
			return fmt.Errorf("fighter %d: fps for clip %s must be positive, got %v", f.ID, clip, fps)
		}
	}
	return nil
}

// Record 胜-负-击杀
func (f FighterConfig) Record() string {
	return fmt.Sprintf("%d-%d-%d", f.Wins, f.Losses, f.Kills)
}
