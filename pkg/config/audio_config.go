package config

import (
	"fmt"
	"time"
)

// AudioConfigPath 音效配置的默认位置
const AudioConfigPath = "data/config/audio.yaml"

// 战斗音效名称
const (
	CueAttackHit  = "attack-hit"
	CueAttackCrit = "attack-crit"
	CueAttackMiss = "attack-miss"
	CueBlock      = "block"
	CueParry      = "parry"
)

// CombatCues 必须预加载的音效
var CombatCues = []string{CueAttackHit, CueAttackCrit, CueAttackMiss, CueBlock, CueParry}

// AudioConfig 音效资源与音量
type AudioConfig struct {
	// CueVolume 战斗音效的基础音量，再乘以用户设置中的音效音量
	CueVolume float64 `yaml:"cue_volume"`

	// FollowUpDelay 反击/还击时，防守音效之后补一声攻击音效的延迟
	FollowUpDelay time.Duration `yaml:"follow_up_delay"`

	// Cues 音效名 -> 资源路径
	Cues map[string]string `yaml:"cues"`

	Music       string  `yaml:"music"`
	MusicVolume float64 `yaml:"music_volume"`
}

// DefaultAudioConfig 内置默认值
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		CueVolume:     0.15,
		FollowUpDelay: 200 * time.Millisecond,
		Cues: map[string]string{
			CueAttackHit:  "assets/audio/SwordAndShield-hit.ogg",
			CueAttackCrit: "assets/audio/SwordAndShield-crit.ogg",
			CueAttackMiss: "assets/audio/SwordAndShield-miss.ogg",
			CueBlock:      "assets/audio/shield-block.ogg",
			CueParry:      "assets/audio/blade-parry.ogg",
		},
		Music:       "assets/audio/fight-music.ogg",
		MusicVolume: 0.4,
	}
}

// LoadAudioConfig 加载音效配置
func LoadAudioConfig(path string) (*AudioConfig, error) {
	cfg := DefaultAudioConfig()
	if err := loadYAML(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置文件 %s 验证失败: %w", path, err)
	}
	return cfg, nil
}

// Validate 校验音量范围与音效清单
func (c *AudioConfig) Validate() error {
	if c.CueVolume < 0 || c.CueVolume > 1 {
		return fmt.Errorf("cue_volume 必须在 [0, 1] 内: %v", c.CueVolume)
	}
	if c.MusicVolume < 0 || c.MusicVolume > 1 {
		return fmt.Errorf("music_volume 必须在 [0, 1] 内: %v", c.MusicVolume)
	}
	if c.FollowUpDelay < 0 {
		return fmt.Errorf("follow_up_delay 不能为负数: %v", c.FollowUpDelay)
	}
	for _, cue := range CombatCues {
		if c.Cues[cue] == "" {
			return fmt.Errorf("缺少音效 '%s' 的资源路径", cue)
		}
	}
	return nil
}
