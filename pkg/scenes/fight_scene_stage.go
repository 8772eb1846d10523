package scenes

import (
	"image/color"
	"log"
	"time"

	"github.com/decker502/duel/pkg/combat"
	"github.com/decker502/duel/pkg/components"
	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/ecs"
	"github.com/decker502/duel/pkg/systems"
	"github.com/decker502/duel/pkg/timeline"
	"github.com/decker502/duel/pkg/types"
)

// 本文件实现 combat.Stage 与 combat.BarRenderer：引擎的每个演出操作都落到 ECS 组件上

var (
	_ combat.Stage       = (*FightScene)(nil)
	_ combat.BarRenderer = (*FightScene)(nil)
)

// 飘字颜色
var textColors = map[combat.TextStyle]color.RGBA{
	combat.TextDamage:    {R: 235, G: 50, B: 50, A: 255},
	combat.TextBlock:     {R: 80, G: 140, B: 255, A: 255},
	combat.TextDodge:     {R: 0, G: 220, B: 230, A: 255},
	combat.TextMiss:      {R: 255, G: 255, B: 255, A: 255},
	combat.TextCounter:   {R: 70, G: 210, B: 90, A: 255},
	combat.TextExhausted: {R: 255, G: 150, B: 20, A: 255},
}

// floatingTextSize 飘字基础字号，再乘以引擎给出的缩放
const floatingTextSize = 28

// labelStyles 常驻文字的颜色与基础字号
var labelStyles = map[combat.LabelStyle]struct {
	color color.RGBA
	size  float64
}{
	combat.LabelCountdown:      {color.RGBA{R: 255, G: 255, B: 255, A: 255}, 40},
	combat.LabelCountdownFinal: {color.RGBA{R: 255, G: 210, B: 60, A: 255}, 64},
	combat.LabelVictoryTitle:   {color.RGBA{R: 255, G: 200, B: 40, A: 255}, 56},
	combat.LabelVictoryName:    {color.RGBA{R: 245, G: 245, B: 245, A: 255}, 36},
}

// PlayClip 实现 combat.Stage
func (s *FightScene) PlayClip(side types.Side, clip string, onComplete func()) {
	spec, ok := s.registry.Lookup(clip)
	if !ok {
		log.Printf("[FightScene] Warning: clip %s not registered", clip)
		s.animationSystem.Interrupt(s.actors[side.Index()])
		if onComplete != nil {
			s.timeline.After(0, onComplete)
		}
		return
	}
	s.animationSystem.Play(s.actors[side.Index()], systems.ClipSpec{
		Name:   spec.Name,
		Base:   spec.Base,
		Start:  spec.Start,
		Frames: spec.Frames,
		FPS:    spec.FPS,
		Loop:   spec.Loop,
	}, s.sheets[side.Index()], onComplete)
}

// After 实现 combat.Stage
func (s *FightScene) After(d time.Duration, fn func()) timeline.Handle {
	return s.timeline.After(d, fn)
}

// Tween 实现 combat.Stage
func (s *FightScene) Tween(spec timeline.TweenSpec) timeline.Handle {
	return s.timeline.Tween(spec)
}

// ShowText 实现 combat.Stage：创建上浮淡出的飘字实体
func (s *FightScene) ShowText(x, y float64, text string, style combat.TextStyle, scale float64, emphasized bool) {
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(s.entityManager, id, &components.FloatingTextComponent{
		Text:       text,
		Color:      textColors[style],
		StartY:     y,
		Rise:       s.cfg.Text.Rise,
		FontSize:   floatingTextSize,
		Emphasized: emphasized,
		Alpha:      1,
	})
	ecs.AddComponent(s.entityManager, id, &components.LifetimeComponent{Duration: s.cfg.Text.Duration.Seconds()})
	ecs.AddComponent(s.entityManager, id, components.Uniform(scale))
}

// NewLabel 实现 combat.Stage
func (s *FightScene) NewLabel(text string, x, y float64, style combat.LabelStyle) combat.Label {
	st := labelStyles[style]
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(s.entityManager, id, &components.LabelComponent{
		Text:     text,
		Color:    st.color,
		FontSize: st.size,
		Alpha:    1,
		Outline:  true,
	})
	ecs.AddComponent(s.entityManager, id, components.Uniform(1))
	return &sceneLabel{em: s.entityManager, id: id}
}

// ActorPosition 实现 combat.Stage
func (s *FightScene) ActorPosition(side types.Side) (x, y float64) {
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.actors[side.Index()])
	if !ok {
		return 0, 0
	}
	return pos.X, pos.Y
}

// SetActorX 实现 combat.Stage
func (s *FightScene) SetActorX(side types.Side, x float64) {
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.actors[side.Index()]); ok {
		pos.X = x
	}
}

// SetFacing 实现 combat.Stage
func (s *FightScene) SetFacing(side types.Side, away bool) {
	if actor, ok := ecs.GetComponent[*components.ActorComponent](s.entityManager, s.actors[side.Index()]); ok {
		actor.FacingAway = away
	}
}

// RevealStatPanel 实现 combat.Stage
func (s *FightScene) RevealStatPanel(side types.Side) {
	if panel, ok := ecs.GetComponent[*components.StatPanelComponent](s.entityManager, s.panels[side.Index()]); ok {
		panel.Revealed = true
		panel.Elapsed = 0
	}
}

// HideStatPanels 实现 combat.Stage
func (s *FightScene) HideStatPanels() {
	for _, id := range s.panels {
		if panel, ok := ecs.GetComponent[*components.StatPanelComponent](s.entityManager, id); ok {
			panel.Revealed = false
			panel.Elapsed = 0
		}
	}
}

// Center 实现 combat.Stage
func (s *FightScene) Center() (x, y float64) {
	return config.StageCenterX, config.StageCenterY
}

// SetFill 实现 combat.BarRenderer
func (s *FightScene) SetFill(side types.Side, res combat.Resource, ratio float64) {
	if bar, ok := ecs.GetComponent[*components.BarComponent](s.entityManager, s.bars[side.Index()][res]); ok {
		bar.Fill = ratio
	}
}

// sceneLabel 把 combat.Label 映射到文字实体
type sceneLabel struct {
	em *ecs.EntityManager
	id ecs.EntityID
}

func (l *sceneLabel) SetAlpha(alpha float64) {
	if label, ok := ecs.GetComponent[*components.LabelComponent](l.em, l.id); ok {
		label.Alpha = alpha
	}
}

func (l *sceneLabel) SetScale(scale float64) {
	if sc, ok := ecs.GetComponent[*components.ScaleComponent](l.em, l.id); ok {
		sc.ScaleX, sc.ScaleY = scale, scale
	}
}

func (l *sceneLabel) SetPosition(x, y float64) {
	if pos, ok := ecs.GetComponent[*components.PositionComponent](l.em, l.id); ok {
		pos.X, pos.Y = x, y
	}
}

func (l *sceneLabel) Destroy() {
	if l.em.IsAlive(l.id) {
		l.em.DestroyEntity(l.id)
	}
}

// panelAdapter 把 BarController 的数值写进属性面板组件
type panelAdapter struct {
	scene *FightScene
	side  types.Side
}

func (p panelAdapter) SetVitals(health, maxHealth, stamina, maxStamina float64) {
	id := p.scene.panels[p.side.Index()]
	if panel, ok := ecs.GetComponent[*components.StatPanelComponent](p.scene.entityManager, id); ok {
		panel.Health, panel.MaxHealth = health, maxHealth
		panel.Stamina, panel.MaxStamina = stamina, maxStamina
	}
}
