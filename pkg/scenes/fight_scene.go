package scenes

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/decker502/duel/pkg/combat"
	"github.com/decker502/duel/pkg/components"
	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/ecs"
	"github.com/decker502/duel/pkg/game"
	"github.com/decker502/duel/pkg/systems"
	"github.com/decker502/duel/pkg/timeline"
	"github.com/decker502/duel/pkg/types"
	"github.com/decker502/duel/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// MusicPlayer 背景音乐（game.AudioManager 实现）
type MusicPlayer interface {
	PlayMusic(path string, baseVolume float64) bool
	StopMusic()
	PauseMusic()
	ResumeMusic()
}

// FightSceneDeps 战斗场景依赖
// Resources / Sounds / Music 都可以为空：没有美术资源时画占位图形，没有音频设备时静音
type FightSceneDeps struct {
	Source    combat.Source
	Resources *game.ResourceManager
	Sounds    game.SoundBank
	Music     MusicPlayer
	Settings  *game.SettingsManager

	Playback  *config.PlaybackConfig
	Animation *config.AnimationConfig
	Audio     *config.AudioConfig

	// FontPath 字体文件（assets/ 下），为空时使用内置字体
	FontPath string
	// AutoStart 场景就绪后立即开始回放（否则等待 F 键）
	AutoStart bool
}

// FightScene 对战回放场景
//
// 场景是回放引擎的 ebiten 舞台：角色、血条、属性面板、文字都是 ECS 实体，
// 引擎通过 combat.Stage 接口操作它们。所有延迟与补间走场景自己的时间线，
// 时间线由 Update 的 deltaTime 推进。
type FightScene struct {
	cfg      *config.PlaybackConfig
	audioCfg *config.AudioConfig
	log      *combat.CombatLog

	// ECS Framework and Systems
	entityManager      *ecs.EntityManager
	animationSystem    *systems.AnimationSystem
	lifetimeSystem     *systems.LifetimeSystem
	floatingTextSystem *systems.FloatingTextSystem
	statPanelSystem    *systems.StatPanelSystem
	renderSystem       *systems.RenderSystem

	timeline *timeline.Timeline
	registry *game.AnimationRegistry
	engine   *combat.Engine
	cues     *game.CombatAudio
	sounds   game.SoundBank
	music    MusicPlayer

	actors [2]ecs.EntityID
	sheets [2]*ebiten.Image
	// background 背景图层，由远到近
	background []*ebiten.Image
	bars   [2][2]ecs.EntityID // [side][resource]
	panels [2]ecs.EntityID

	input     func() utils.Command
	victories int
}

// NewFightScene 加载对战记录并搭好舞台
// 记录无法加载或校验失败时返回 combat.ErrCannotStart，场景不会创建
func NewFightScene(ctx context.Context, deps FightSceneDeps) (*FightScene, error) {
	if deps.Source == nil {
		return nil, fmt.Errorf("no combat source: %w", combat.ErrNotReady)
	}
	combatLog, err := deps.Source.LoadCombat(ctx)
	if err != nil {
		return nil, err
	}

	s := &FightScene{
		cfg:           deps.Playback,
		audioCfg:      deps.Audio,
		log:           combatLog,
		entityManager: ecs.NewEntityManager(),
		timeline:      timeline.New(),
		registry:      game.NewAnimationRegistry(deps.Animation),
		sounds:        deps.Sounds,
		music:         deps.Music,
		input:         utils.PollCommand,
	}
	if s.cfg == nil {
		s.cfg = config.DefaultPlaybackConfig()
	}
	if s.audioCfg == nil {
		s.audioCfg = config.DefaultAudioConfig()
	}
	if s.sounds == nil {
		s.sounds = silentBank{}
	}

	s.animationSystem = systems.NewAnimationSystem(s.entityManager)
	s.lifetimeSystem = systems.NewLifetimeSystem(s.entityManager)
	s.floatingTextSystem = systems.NewFloatingTextSystem(s.entityManager)
	s.statPanelSystem = systems.NewStatPanelSystem(s.entityManager)
	frameW, frameH := s.registry.FrameSize()
	var fonts systems.FontProvider
	if deps.Resources != nil {
		fonts = deps.Resources
	}
	s.renderSystem = systems.NewRenderSystem(s.entityManager, fonts, deps.FontPath, frameW, frameH)

	if deps.Resources != nil && deps.Animation != nil {
		s.background = deps.Resources.LoadLayers(deps.Animation.Background)
	}

	for _, side := range types.Sides {
		fighter := combatLog.Fighter(side)
		s.registry.Register(side, fighter.FPS)
		s.sheets[side.Index()] = s.loadSheet(deps.Resources, fighter)
		s.createActor(side)
		s.createBars(side, fighter)
		s.createStatPanel(side, fighter)
	}

	// 音效调度与引擎共享同一个 Scope：重置时追击音效一并失效
	scope := combat.NewScope(s)
	s.cues = game.NewCombatAudio(s.sounds, scope, deps.Settings, s.audioCfg)
	if err := s.cues.Initialize(ctx); err != nil {
		log.Printf("[FightScene] Warning: 音效初始化中断: %v", err)
	}

	s.engine, err = combat.NewEngine(combat.EngineDeps{
		Stage:  s,
		Scope:  scope,
		Clips:  s.registry,
		Cues:   s.cues,
		Bars:   s,
		Config: s.cfg,
		Signals: combat.Signals{
			OnStepComplete: func(isLast bool) {
				cursor := s.engine.Cursor()
				log.Printf("[FightScene] 回合 %d/%d 完成", cursor.CurrentIndex+1, len(s.log.Actions))
			},
			OnSequenceComplete: func() {
				log.Printf("[FightScene] 全部回合播放完毕")
			},
			OnVictoryComplete: func() {
				s.victories++
				log.Printf("[FightScene] 胜利收尾完成")
			},
		},
	})
	if err != nil {
		return nil, err
	}
	if err := s.engine.Load(combatLog); err != nil {
		return nil, err
	}
	for _, side := range types.Sides {
		s.engine.AttachPanel(side, panelAdapter{scene: s, side: side})
	}

	if s.music != nil && s.audioCfg.Music != "" {
		s.music.PlayMusic(s.audioCfg.Music, s.audioCfg.MusicVolume)
	}

	log.Printf("[FightScene] 场景就绪: %s vs %s, %d 回合",
		combatLog.Player1.DisplayName(types.SidePlayer1),
		combatLog.Player2.DisplayName(types.SidePlayer2),
		len(combatLog.Actions))

	if deps.AutoStart {
		s.Start()
	}
	return s, nil
}

// loadSheet 加载精灵图；失败时返回 nil（使用占位图形）
func (s *FightScene) loadSheet(rm *game.ResourceManager, fighter config.FighterConfig) *ebiten.Image {
	if rm == nil || fighter.SpriteSheet == "" {
		return nil
	}
	img, err := rm.LoadImage(fighter.SpriteSheet)
	if err != nil {
		log.Printf("[FightScene] Warning: 精灵图加载失败，使用占位图形: %v", err)
		return nil
	}
	return img
}

func (s *FightScene) createActor(side types.Side) {
	x := config.Player1StartX
	if side.IsPlayer2() {
		x = config.Player2StartX
	}
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.PositionComponent{X: x, Y: config.ActorBaselineY})
	ecs.AddComponent(s.entityManager, id, &components.ActorComponent{
		Side:  side,
		Depth: config.ActorDepth,
		Size:  config.ActorDisplaySize,
	})
	s.actors[side.Index()] = id
}

func (s *FightScene) createBars(side types.Side, fighter config.FighterConfig) {
	player2 := side.IsPlayer2()
	hx, hy, sx, sy := config.GetBarOrigin(player2)

	health := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, health, &components.PositionComponent{X: hx, Y: hy})
	ecs.AddComponent(s.entityManager, health, &components.BarComponent{
		Side: side, Kind: components.BarHealth,
		Width: config.HealthBarWidth, Height: config.HealthBarHeight,
		Fill: 1, Color: healthColor, AnchorRight: !player2,
	})

	stamina := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, stamina, &components.PositionComponent{X: sx, Y: sy})
	ecs.AddComponent(s.entityManager, stamina, &components.BarComponent{
		Side: side, Kind: components.BarStamina,
		Width: config.StaminaBarWidth, Height: config.StaminaBarHeight,
		Fill: 1, Color: staminaColor, AnchorRight: !player2,
	})

	s.bars[side.Index()][combat.ResourceHealth] = health
	s.bars[side.Index()][combat.ResourceStamina] = stamina

	// 名字标签在血条上方，不参与动画
	name := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, name, &components.PositionComponent{
		X: hx + config.HealthBarWidth/2,
		Y: hy - config.NameLabelOffsetY/2,
	})
	ecs.AddComponent(s.entityManager, name, &components.LabelComponent{
		Text: fighter.DisplayName(side), Color: nameColor, FontSize: 18, Alpha: 1, Outline: true,
	})
}

func (s *FightScene) createStatPanel(side types.Side, fighter config.FighterConfig) {
	hidden, shown := config.GetStatPanelX(side.IsPlayer2())
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.PositionComponent{X: hidden, Y: config.StatPanelTopY})
	ecs.AddComponent(s.entityManager, id, &components.StatPanelComponent{
		Side:       side,
		HiddenX:    hidden,
		ShownX:     shown,
		Duration:   config.StatPanelSlideSeconds,
		Lines:      StatLines(fighter, side),
		Health:     float64(fighter.MaxHealth),
		MaxHealth:  float64(fighter.MaxHealth),
		Stamina:    float64(fighter.MaxEndurance),
		MaxStamina: float64(fighter.MaxEndurance),
	})
	s.panels[side.Index()] = id
}

// StatLines 属性面板的固定行
func StatLines(f config.FighterConfig, side types.Side) []string {
	lines := []string{f.DisplayName(side)}
	if gear := strings.Trim(f.Weapon+" / "+f.Armor, " /"); gear != "" {
		lines = append(lines, gear)
	}
	if f.Stance != "" {
		lines = append(lines, f.Stance)
	}
	lines = append(lines,
		fmt.Sprintf("STR %d CON %d SIZ %d", f.Strength, f.Constitution, f.Size),
		fmt.Sprintf("AGI %d STA %d LCK %d", f.Agility, f.Stamina, f.Luck),
		"W-L-K "+f.Record(),
	)
	return lines
}

// Engine 回放引擎
func (s *FightScene) Engine() *combat.Engine {
	return s.engine
}

// SetInput 替换输入来源（测试与工具使用）
func (s *FightScene) SetInput(poll func() utils.Command) {
	s.input = poll
}

// Start 开始回放；RUNNING / COMPLETE 时为空操作
func (s *FightScene) Start() {
	if err := s.engine.Start(); err != nil {
		log.Printf("[FightScene] 错误: 无法开始回放: %v", err)
	}
}

// Restart 重置并在短暂停顿后重新开始
func (s *FightScene) Restart() {
	s.engine.Reset()
	if n := s.lifetimeSystem.ExpireAll(); n > 0 {
		log.Printf("[FightScene] Reset cleared %d floating texts", n)
	}
	s.entityManager.RemoveMarkedEntities()
	s.engine.Scope().After(s.cfg.ResetRestartDelay, s.Start)
}

// Update 推进场景
// 顺序：输入 → 时间线（引擎回调）→ 动画（片段完成回调）→ 生命周期 → 飘字 → 面板 → 清理
func (s *FightScene) Update(deltaTime float64) {
	if s.input != nil {
		switch s.input() {
		case utils.CommandStart:
			s.Start()
		case utils.CommandReset:
			s.Restart()
		}
	}

	s.timeline.Update(deltaTime)
	s.animationSystem.Update(deltaTime)
	s.lifetimeSystem.Update(deltaTime)
	s.floatingTextSystem.Update()
	s.statPanelSystem.Update(deltaTime)
	s.entityManager.RemoveMarkedEntities()

	if poller, ok := s.sounds.(interface{ Update() }); ok {
		poller.Update()
	}
}

// Draw 绘制场景
func (s *FightScene) Draw(screen *ebiten.Image) {
	s.drawBackground(screen)
	s.renderSystem.Draw(screen)

	if hint := s.Hint(); hint != "" {
		ebitenutil.DebugPrintAt(screen, hint, int(config.StageCenterX)-len(hint)*3, 100)
	}
	ebitenutil.DebugPrintAt(screen, s.Footer(), 8, config.ScreenHeight-16)
}

// drawBackground 背景图层拉伸铺满画面；没有图层时画纯色背景与地面
func (s *FightScene) drawBackground(screen *ebiten.Image) {
	if len(s.background) == 0 {
		screen.Fill(backgroundColor)
		vector.DrawFilledRect(screen, 0, float32(config.ActorBaselineY), config.ScreenWidth,
			float32(config.ScreenHeight-config.ActorBaselineY), floorColor, false)
		return
	}
	for _, layer := range s.background {
		w, h := layer.Bounds().Dx(), layer.Bounds().Dy()
		if w == 0 || h == 0 {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(config.ScreenWidth)/float64(w), float64(config.ScreenHeight)/float64(h))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(layer, op)
	}
}

// Hint 按状态提示可用按键；移动端只有轻触开始
func (s *FightScene) Hint() string {
	state := s.engine.State()
	if utils.IsMobile() {
		if state == combat.StateIdle {
			return "Tap to start"
		}
		return ""
	}
	switch state {
	case combat.StateIdle:
		return "Press F to start, R to reset"
	case combat.StateComplete:
		return "Press R to replay"
	}
	return ""
}

// Footer 页脚：引擎版本与记录来源
func (s *FightScene) Footer() string {
	parts := []string{"engine " + s.log.EngineVersion()}
	src := s.log.Source
	if src.Network != "" {
		parts = append(parts, src.Network)
	}
	if src.Block != 0 {
		parts = append(parts, fmt.Sprintf("block %d", src.Block))
	}
	if src.TxID != "" {
		parts = append(parts, "tx "+src.TxID)
	}
	return strings.Join(parts, " | ")
}

// OnFocusLost 实现 game.FocusAware：停止所有音效并暂停音乐
func (s *FightScene) OnFocusLost() {
	s.cues.OnFocusLost()
	if s.music != nil {
		s.music.PauseMusic()
	}
}

// OnFocusGained 实现 game.FocusAware
func (s *FightScene) OnFocusGained() {
	s.cues.OnFocusGained()
	if s.music != nil {
		s.music.ResumeMusic()
	}
}

// OnExit 实现 game.Exitable：取消回放、停止声音、清空实体
func (s *FightScene) OnExit() {
	s.engine.Reset()
	s.cues.StopAll()
	if s.music != nil {
		s.music.StopMusic()
	}
	s.timeline.CancelAll()
	s.entityManager.Clear()
	log.Printf("[FightScene] 场景退出")
}

var (
	backgroundColor = color.RGBA{R: 48, G: 44, B: 60, A: 255}
	floorColor      = color.RGBA{R: 72, G: 58, B: 44, A: 255}
	healthColor     = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	staminaColor    = color.RGBA{R: 230, G: 190, B: 40, A: 255}
	nameColor       = color.RGBA{R: 240, G: 240, B: 240, A: 255}
)

// silentBank 没有音频设备时的音效库：全部预加载成功，播放立即结束
type silentBank struct{}

func (silentBank) Preload(cue, path string) error { return nil }

func (silentBank) Play(cue string, volume float64, onComplete func()) game.SoundHandle {
	if onComplete != nil {
		onComplete()
	}
	return silentHandle{}
}

type silentHandle struct{}

func (silentHandle) Stop()           {}
func (silentHandle) IsPlaying() bool { return false }
