package game

import (
	"context"
	"log"
	"time"

	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/timeline"
	"github.com/decker502/duel/pkg/types"
)

// SoundHandle 一次播放
type SoundHandle interface {
	Stop()
	IsPlaying() bool
}

// SoundBank 音效库
// AudioManager 是 ebiten 实现；测试中使用假实现。
type SoundBank interface {
	// Preload 解码并缓存音效；失败时返回错误
	Preload(cue, path string) error
	// Play 播放已预加载的音效，自然结束时调用 onComplete
	// 音效未加载时返回 nil
	Play(cue string, volume float64, onComplete func()) SoundHandle
}

// Delayer 延迟调用（combat.Scope 满足该接口，重置后追击音效自动失效）
type Delayer interface {
	After(d time.Duration, fn func()) timeline.Handle
}

// CombatAudio 战斗音效调度
//
// 职责：
//   - 预加载固定的一组战斗音效，全部完成后才允许播放
//   - 按攻击/防守结果选择音效，反击与还击补一声攻击音效
//   - 跟踪正在播放的音效，失去/获得焦点时全部停止
type CombatAudio struct {
	bank     SoundBank
	delayer  Delayer
	settings *SettingsManager
	cfg      *config.AudioConfig

	ready    bool
	loaded   map[string]bool
	active   map[uint64]SoundHandle
	nextID   uint64
	followUp []timeline.Handle
}

// NewCombatAudio 创建调度器
// settings 可为 nil（按满音量处理）；cfg 为 nil 时使用内置默认值
func NewCombatAudio(bank SoundBank, delayer Delayer, settings *SettingsManager, cfg *config.AudioConfig) *CombatAudio {
	if cfg == nil {
		cfg = config.DefaultAudioConfig()
	}
	return &CombatAudio{
		bank:     bank,
		delayer:  delayer,
		settings: settings,
		cfg:      cfg,
		loaded:   make(map[string]bool),
		active:   make(map[uint64]SoundHandle),
	}
}

// SetDelayer 替换延迟调度器（场景重建 Scope 时调用）
func (ca *CombatAudio) SetDelayer(d Delayer) {
	ca.delayer = d
}

// Initialize 预加载全部战斗音效
// 单个音效加载失败只打印警告，播放时跳过；ctx 取消时返回其错误且不开放播放。
func (ca *CombatAudio) Initialize(ctx context.Context) error {
	for _, cue := range config.CombatCues {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := ca.cfg.Cues[cue]
		if err := ca.bank.Preload(cue, path); err != nil {
			log.Printf("[CombatAudio] Warning: 音效 %s 加载失败 (%s): %v", cue, path, err)
			continue
		}
		ca.loaded[cue] = true
	}
	ca.ready = true
	log.Printf("[CombatAudio] 预加载完成: %d/%d", len(ca.loaded), len(config.CombatCues))
	return nil
}

// IsReady 预加载是否已完成
func (ca *CombatAudio) IsReady() bool {
	return ca.ready
}

// PlayAttackCue 攻击音效；miss 优先于 crit
func (ca *CombatAudio) PlayAttackCue(isCrit, isMiss bool) {
	switch {
	case isMiss:
		ca.play(config.CueAttackMiss)
	case isCrit:
		ca.play(config.CueAttackCrit)
	default:
		ca.play(config.CueAttackHit)
	}
}

// PlayDefenseCue 防守音效
// 反击类（COUNTER*）以格挡开始，还击类（RIPOSTE*）以招架开始，随后补一声攻击音效。
func (ca *CombatAudio) PlayDefenseCue(result types.ResultType) {
	switch {
	case result == types.ResultBlock || result.IsCounter():
		ca.play(config.CueBlock)
	case result == types.ResultParry || result.IsRiposte():
		ca.play(config.CueParry)
	default:
		log.Printf("[CombatAudio] Warning: %s 没有对应的防守音效", result)
		return
	}

	if !result.IsReactive() || !ca.ready {
		return
	}
	crit := result.IsCrit()
	if ca.delayer == nil {
		ca.PlayAttackCue(crit, false)
		return
	}
	h := ca.delayer.After(ca.cfg.FollowUpDelay, func() {
		ca.PlayAttackCue(crit, false)
	})
	ca.followUp = append(timeline.Prune(ca.followUp), h)
}

// ActiveCount 正在播放的音效数
func (ca *CombatAudio) ActiveCount() int {
	return len(ca.active)
}

// StopAll 停止所有音效并取消未触发的追击音效
func (ca *CombatAudio) StopAll() {
	for _, h := range ca.followUp {
		h.Cancel()
	}
	ca.followUp = nil

	for id, h := range ca.active {
		h.Stop()
		delete(ca.active, id)
	}
}

// OnFocusLost 窗口失去焦点
func (ca *CombatAudio) OnFocusLost() {
	log.Printf("[CombatAudio] 失去焦点，停止 %d 个音效", len(ca.active))
	ca.StopAll()
}

// OnFocusGained 窗口重新获得焦点；停止切换期间残留的音效
func (ca *CombatAudio) OnFocusGained() {
	ca.StopAll()
}

func (ca *CombatAudio) play(cue string) {
	if !ca.ready {
		log.Printf("[CombatAudio] Warning: 音效尚未加载完成，忽略 %s", cue)
		return
	}
	if !ca.loaded[cue] {
		log.Printf("[CombatAudio] Warning: 音效 %s 不可用，跳过", cue)
		return
	}

	volume := ca.cfg.CueVolume * ca.settings.SoundGain()
	if volume <= 0 {
		return
	}

	id := ca.nextID
	ca.nextID++
	finished := false
	h := ca.bank.Play(cue, volume, func() {
		finished = true
		delete(ca.active, id)
	})
	if h == nil {
		log.Printf("[CombatAudio] Warning: 音效 %s 播放失败", cue)
		return
	}
	if !finished {
		ca.active[id] = h
	}
}
