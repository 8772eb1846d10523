package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioManager 音频管理器（ebiten 实现的 SoundBank）
// 职责：
//   - 预加载战斗音效（解码为 PCM，多次重叠播放共享同一份数据）
//   - 每次播放创建独立的 Player，在 Update 中轮询播放状态并触发完成回调
//   - 播放/停止背景音乐，音量跟随 SettingsManager
//
// 设计原则：
//   - 音效选择逻辑在 CombatAudio，这里只负责"把声音放出来"
//   - 所有方法只能在游戏循环线程调用
type AudioManager struct {
	resourceManager *ResourceManager  // 资源管理器（用于解码音频）
	settingsManager *SettingsManager  // 设置管理器（用于读取音乐音量，可为 nil）
	cueData         map[string][]byte // 音效名 -> PCM
	playing         []*soundPlayback  // 正在播放的音效
	currentMusic    *audio.Player     // 当前播放的背景音乐
	currentMusicID  string            // 当前背景音乐路径
	musicBaseVolume float64           // 背景音乐基础音量（再乘以用户设置）
}

// soundPlayback 一次音效播放，实现 SoundHandle
type soundPlayback struct {
	cue        string
	player     *audio.Player
	onComplete func()
	stopped    bool
}

// Stop 立即停止并释放播放器；不会触发完成回调
func (p *soundPlayback) Stop() {
	if p.stopped {
		return
	}
	p.stopped = true
	p.player.Pause()
	if err := p.player.Close(); err != nil {
		log.Printf("[AudioManager] Warning: 关闭音效 %s 失败: %v", p.cue, err)
	}
}

// IsPlaying 是否仍在播放
func (p *soundPlayback) IsPlaying() bool {
	return !p.stopped && p.player.IsPlaying()
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - rm: ResourceManager 实例（用于加载音频文件）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(rm *ResourceManager, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		resourceManager: rm,
		settingsManager: sm,
		cueData:         make(map[string][]byte),
		musicBaseVolume: 1,
	}
}

// Preload 解码音效并登记到 cue 名下
func (am *AudioManager) Preload(cue, path string) error {
	if path == "" {
		return fmt.Errorf("音效 %s 没有配置资源路径", cue)
	}
	data, err := am.resourceManager.LoadSoundData(path)
	if err != nil {
		return err
	}
	am.cueData[cue] = data
	log.Printf("[AudioManager] 已预加载音效 %s (%s, %d bytes)", cue, path, len(data))
	return nil
}

// Play 播放已预加载的音效
// volume 为最终音量（调用方已乘以用户设置）；音效未加载时返回 nil
func (am *AudioManager) Play(cue string, volume float64, onComplete func()) SoundHandle {
	data, ok := am.cueData[cue]
	if !ok {
		log.Printf("[AudioManager] Warning: Sound not loaded: %s", cue)
		return nil
	}
	ctx := am.resourceManager.AudioContext()
	if ctx == nil {
		return nil
	}

	player := ctx.NewPlayerFromBytes(data)
	player.SetVolume(volume)
	player.Play()

	p := &soundPlayback{cue: cue, player: player, onComplete: onComplete}
	am.playing = append(am.playing, p)
	return p
}

// Update 轮询正在播放的音效，自然结束的释放并触发完成回调
// 每帧由场景调用
func (am *AudioManager) Update() {
	if len(am.playing) == 0 {
		return
	}

	var finished []*soundPlayback
	active := am.playing[:0]
	for _, p := range am.playing {
		switch {
		case p.stopped:
		case p.player.IsPlaying():
			active = append(active, p)
		default:
			finished = append(finished, p)
		}
	}
	for i := len(active); i < len(am.playing); i++ {
		am.playing[i] = nil
	}
	am.playing = active

	// 回调放在列表整理之后，回调里可以安全地再次 Play
	for _, p := range finished {
		p.stopped = true
		if err := p.player.Close(); err != nil {
			log.Printf("[AudioManager] Warning: 关闭音效 %s 失败: %v", p.cue, err)
		}
		if p.onComplete != nil {
			p.onComplete()
		}
	}
}

// PlayingCount 正在播放的音效数
func (am *AudioManager) PlayingCount() int {
	return len(am.playing)
}

// PlayMusic 循环播放背景音乐
// 同一时间只能播放一首背景音乐；音乐被禁用时返回 false
func (am *AudioManager) PlayMusic(path string, baseVolume float64) bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().MusicEnabled {
		return false
	}

	// 如果已经在播放同一首音乐，不重复播放
	if am.currentMusicID == path && am.currentMusic != nil && am.currentMusic.IsPlaying() {
		return true
	}

	am.StopMusic()

	player, err := am.resourceManager.LoadMusic(path)
	if err != nil {
		log.Printf("[AudioManager] Warning: Failed to load music %s: %v", path, err)
		return false
	}

	am.musicBaseVolume = baseVolume
	volume := am.musicVolume()
	player.SetVolume(volume)
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind music %s: %v", path, err)
	}
	player.Play()

	am.currentMusic = player
	am.currentMusicID = path

	log.Printf("[AudioManager] Playing music: %s (volume: %.2f)", path, volume)
	return true
}

// StopMusic 停止当前背景音乐
func (am *AudioManager) StopMusic() {
	if am.currentMusic != nil {
		am.currentMusic.Pause()
		am.currentMusic = nil
		am.currentMusicID = ""
	}
}

// PauseMusic 暂停当前背景音乐
func (am *AudioManager) PauseMusic() {
	if am.currentMusic != nil {
		am.currentMusic.Pause()
	}
}

// ResumeMusic 恢复当前背景音乐
func (am *AudioManager) ResumeMusic() {
	if am.currentMusic == nil {
		return
	}
	if am.settingsManager != nil && !am.settingsManager.GetSettings().MusicEnabled {
		return
	}
	am.currentMusic.Play()
}

// ApplyVolume 用户设置变化后立即应用到当前音乐
func (am *AudioManager) ApplyVolume() {
	if am.currentMusic != nil {
		am.currentMusic.SetVolume(am.musicVolume())
	}
}

func (am *AudioManager) musicVolume() float64 {
	return am.musicBaseVolume * am.settingsManager.MusicGain()
}
