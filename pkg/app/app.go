// Package app 提供对战回放程序的核心包装器
//
// 该包把初始化逻辑从 main 包提取出来：加载配置、创建音频与资源管理器、
// 通过场景管理器创建战斗场景。main.go 只负责解析命令行参数并调用 NewApp()。
package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/duel/pkg/combat"
	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/game"
	"github.com/decker502/duel/pkg/scenes"
	"github.com/decker502/duel/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// 配置文件位置（data/ 下的默认值可以被 -config 目录覆盖）
const (
	playbackConfigPath  = "data/config/playback.yaml"
	animationConfigPath = "data/config/animations.yaml"
	audioConfigPath     = "data/config/audio.yaml"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// CombatPath 对战记录文件；"data/" 开头走嵌入资源
	CombatPath string
	// FontPath 字体文件，为空时使用内置字体
	FontPath string
	// AutoStart 场景就绪后立即开始回放（与设置中的 autoStart 取或）
	AutoStart bool
}

// App 是回放程序的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settingsManager          *game.SettingsManager
	audioManager             *game.AudioManager
	verbose                  bool
	focused                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化资源文件系统。
// 对战记录无法加载时返回错误（包装 combat.ErrCannotStart）。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	playback, err := config.LoadPlaybackConfig(playbackConfigPath)
	if err != nil {
		return nil, fmt.Errorf("回放配置加载失败: %w", err)
	}
	animation, err := config.LoadAnimationConfig(animationConfigPath)
	if err != nil {
		return nil, fmt.Errorf("动画配置加载失败: %w", err)
	}
	audioCfg, err := config.LoadAudioConfig(audioConfigPath)
	if err != nil {
		return nil, fmt.Errorf("音频配置加载失败: %w", err)
	}
	log.Printf("[Config] 配置加载完成")

	// 用户设置：gdata 不可用时降级为内存设置
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: "duel"})
	if err != nil {
		log.Printf("[App] Warning: 无法打开设置存储，使用默认设置: %v", err)
		gdataManager = nil
	}
	settingsManager := game.NewSettingsManager(gdataManager)
	if err := settingsManager.Load(); err != nil {
		log.Printf("[App] Warning: 设置加载失败: %v", err)
	}
	settings := settingsManager.GetSettings()
	if settings.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	// 初始化音频上下文
	audioContext := audio.NewContext(48000)
	resourceManager := game.NewResourceManager(audioContext)
	audioManager := game.NewAudioManager(resourceManager, settingsManager)
	log.Printf("[App] AudioManager initialized")

	// 创建场景管理器
	autoStart := cfg.AutoStart || settings.AutoStart
	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func(combatPath string) (game.Scene, error) {
		return scenes.NewFightScene(context.Background(), scenes.FightSceneDeps{
			Source:    combat.FileSource{Path: combatPath},
			Resources: resourceManager,
			Sounds:    audioManager,
			Music:     audioManager,
			Settings:  settingsManager,
			Playback:  playback,
			Animation: animation,
			Audio:     audioCfg,
			FontPath:  cfg.FontPath,
			AutoStart: autoStart,
		})
	})

	if err := sceneManager.LoadCombat(cfg.CombatPath); err != nil {
		return nil, err
	}

	return &App{
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
		audioManager:    audioManager,
		verbose:         cfg.Verbose,
		focused:         true,
	}, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.ScreenWidth, config.ScreenHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.ScreenWidth, config.ScreenHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	// M / S / + / - 调整音乐与音效
	if cmd := utils.PollSettingsCommand(); cmd != utils.SettingsNone {
		a.applySettings(cmd)
	}

	// 窗口焦点变化：失去焦点时停止音效
	if focused := ebiten.IsFocused(); focused != a.focused {
		a.focused = focused
		log.Printf("[App] Focus changed: %v", focused)
		a.sceneManager.NotifyFocus(focused)
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	ebiten.SetFullscreen(fullscreen)
	if !fullscreen {
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	}

	a.settingsManager.GetSettings().Fullscreen = fullscreen
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: 设置保存失败: %v", err)
	}
}

// applySettings 执行设置指令，保存并立即作用到正在播放的音乐
// 战斗音效每次播放时读取增益，不需要额外处理
func (a *App) applySettings(cmd utils.SettingsCommand) {
	if !a.settingsManager.Apply(cmd) {
		return
	}
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: 设置保存失败: %v", err)
	}
	a.audioManager.ApplyVolume()
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenWidth, config.ScreenHeight
}

// Shutdown 退出前停止回放与声音
func (a *App) Shutdown() {
	a.sceneManager.Shutdown()
	a.audioManager.StopMusic()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
