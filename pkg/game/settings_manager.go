package game

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/duel/pkg/utils"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// PlayerSettings 持久化的用户偏好
type PlayerSettings struct {
	MusicVolume  float64 `yaml:"musicVolume"`  // 0.0 ~ 1.0
	SoundVolume  float64 `yaml:"soundVolume"`  // 0.0 ~ 1.0，乘在战斗音效基础音量上
	MusicEnabled bool    `yaml:"musicEnabled"`
	SoundEnabled bool    `yaml:"soundEnabled"`
	Fullscreen   bool    `yaml:"fullscreen"`

	// AutoStart 对战记录加载后自动开始回放（否则等待按 F）
	AutoStart bool `yaml:"autoStart"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *PlayerSettings {
	return &PlayerSettings{
		MusicVolume:  0.7,
		SoundVolume:  1.0,
		MusicEnabled: true,
		SoundEnabled: true,
	}
}

// VolumeStep 每按一次 +/- 调整的音量
const VolumeStep = 0.1

// 存储位置
const (
	settingsObject   = "settings"
	settingsProperty = "player"
)

// SettingsManager 设置的加载、保存与内存副本
// gdataManager 为 nil 时进入降级模式：只在内存中生效，Save 为空操作
type SettingsManager struct {
	gdataManager *gdata.Manager
	settings     *PlayerSettings
}

// NewSettingsManager 创建设置管理器；读取失败时使用默认设置并打印警告
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 读取设置
func (sm *SettingsManager) Load() error {
	sm.settings = DefaultSettings()
	if sm.gdataManager == nil {
		return nil
	}
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.MusicVolume = clampVolume(loaded.MusicVolume)
	loaded.SoundVolume = clampVolume(loaded.SoundVolume)
	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded")
	return nil
}

// Save 写回 gdata
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	log.Printf("[SettingsManager] Settings saved")
	return nil
}

// GetSettings 当前设置（可读可改，改完需 Save）
func (sm *SettingsManager) GetSettings() *PlayerSettings {
	return sm.settings
}

// SetMusicVolume 设置音乐音量，自动截断到 [0, 1]
func (sm *SettingsManager) SetMusicVolume(volume float64) {
	sm.settings.MusicVolume = clampVolume(volume)
}

// SetSoundVolume 设置音效音量，自动截断到 [0, 1]
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

// ToggleSound 切换音效开关，返回新状态
func (sm *SettingsManager) ToggleSound() bool {
	sm.settings.SoundEnabled = !sm.settings.SoundEnabled
	return sm.settings.SoundEnabled
}

// ToggleMusic 切换音乐开关，返回新状态
func (sm *SettingsManager) ToggleMusic() bool {
	sm.settings.MusicEnabled = !sm.settings.MusicEnabled
	return sm.settings.MusicEnabled
}

// Apply 执行一条设置指令，返回设置是否改变（改变时调用方负责 Save 与应用音量）
// +/- 同时调整音乐与音效音量
func (sm *SettingsManager) Apply(cmd utils.SettingsCommand) bool {
	s := sm.settings
	switch cmd {
	case utils.SettingsToggleMusic:
		log.Printf("[SettingsManager] Music enabled: %v", sm.ToggleMusic())
		return true
	case utils.SettingsToggleSound:
		log.Printf("[SettingsManager] Sound enabled: %v", sm.ToggleSound())
		return true
	case utils.SettingsVolumeUp, utils.SettingsVolumeDown:
		delta := VolumeStep
		if cmd == utils.SettingsVolumeDown {
			delta = -delta
		}
		music, sound := s.MusicVolume, s.SoundVolume
		sm.SetMusicVolume(math.Round((music+delta)*100) / 100)
		sm.SetSoundVolume(math.Round((sound+delta)*100) / 100)
		if s.MusicVolume == music && s.SoundVolume == sound {
			return false
		}
		log.Printf("[SettingsManager] Volume: music %.2f, sound %.2f", s.MusicVolume, s.SoundVolume)
		return true
	}
	return false
}

// SoundGain 音效实际增益；关闭音效时为 0
func (sm *SettingsManager) SoundGain() float64 {
	if sm == nil {
		return 1
	}
	if !sm.settings.SoundEnabled {
		return 0
	}
	return sm.settings.SoundVolume
}

// MusicGain 音乐实际增益；关闭音乐时为 0
func (sm *SettingsManager) MusicGain() float64 {
	if sm == nil {
		return 1
	}
	if !sm.settings.MusicEnabled {
		return 0
	}
	return sm.settings.MusicVolume
}

func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
