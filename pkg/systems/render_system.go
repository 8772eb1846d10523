package systems

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/decker502/duel/pkg/components"
	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/ecs"
	"github.com/decker502/duel/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// FontProvider 按字号提供字体（game.ResourceManager 实现）
type FontProvider interface {
	Font(path string, size float64) *text.GoTextFace
}

var (
	barBackground  = color.RGBA{R: 30, G: 30, B: 30, A: 220}
	barBorder      = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	panelFill      = color.RGBA{R: 10, G: 10, B: 20, A: 190}
	panelText      = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	outlineColor   = color.RGBA{A: 255}
	placeholderP1  = color.RGBA{R: 70, G: 110, B: 200, A: 255}
	placeholderP2  = color.RGBA{R: 190, G: 70, B: 60, A: 255}
	placeholderHit = color.RGBA{R: 255, G: 120, B: 120, A: 255}
)

// RenderSystem 绘制对战舞台
//
// 绘制顺序（从底到顶）：血条 → 角色（按层级）→ 属性面板 → 常驻文字 → 飘字
// 角色没有精灵图时画占位图形，便于在没有美术资源的情况下调试回放。
type RenderSystem struct {
	entityManager *ecs.EntityManager
	fonts         FontProvider
	fontPath      string
	frameWidth    int
	frameHeight   int
}

// NewRenderSystem 创建渲染系统
// frameWidth / frameHeight 是精灵图单帧尺寸；fontPath 为空时使用内置字体
func NewRenderSystem(em *ecs.EntityManager, fonts FontProvider, fontPath string, frameWidth, frameHeight int) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		fonts:         fonts,
		fontPath:      fontPath,
		frameWidth:    frameWidth,
		frameHeight:   frameHeight,
	}
}

// Draw 绘制整个舞台
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	s.drawBars(screen)
	for _, id := range s.ActorDrawOrder() {
		s.drawActor(screen, id)
	}
	s.drawStatPanels(screen)
	s.drawLabels(screen)
	s.drawFloatingTexts(screen)
}

// ActorDrawOrder 角色的绘制顺序：层级低的先画，同层级按实体 ID
func (s *RenderSystem) ActorDrawOrder() []ecs.EntityID {
	ids := ecs.GetEntitiesWith2[*components.ActorComponent, *components.PositionComponent](s.entityManager)
	sort.SliceStable(ids, func(i, j int) bool {
		a, _ := ecs.GetComponent[*components.ActorComponent](s.entityManager, ids[i])
		b, _ := ecs.GetComponent[*components.ActorComponent](s.entityManager, ids[j])
		return a.Depth < b.Depth
	})
	return ids
}

func (s *RenderSystem) drawBars(screen *ebiten.Image) {
	entities := ecs.GetEntitiesWith2[*components.BarComponent, *components.PositionComponent](s.entityManager)
	for _, id := range entities {
		bar, _ := ecs.GetComponent[*components.BarComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		x, y := float32(pos.X), float32(pos.Y)
		w, h := float32(bar.Width), float32(bar.Height)
		vector.DrawFilledRect(screen, x, y, w, h, barBackground, true)

		offset, width := bar.FilledRect()
		if width > 0 {
			vector.DrawFilledRect(screen, x+float32(offset), y, float32(width), h, bar.Color, true)
		}
		vector.StrokeRect(screen, x, y, w, h, 2, barBorder, true)
	}
}

func (s *RenderSystem) drawActor(screen *ebiten.Image, id ecs.EntityID) {
	actor, _ := ecs.GetComponent[*components.ActorComponent](s.entityManager, id)
	pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	anim, hasAnim := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id)

	if !hasAnim || anim.Sheet == nil || s.frameWidth <= 0 || s.frameHeight <= 0 {
		s.drawPlaceholder(screen, actor, pos, anim)
		return
	}

	frame := s.frameImage(anim.Sheet, anim.StartFrame+anim.CurrentFrame())
	if frame == nil {
		s.drawPlaceholder(screen, actor, pos, anim)
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(actor.Size/float64(s.frameWidth), actor.Size/float64(s.frameHeight))
	if actor.FacesLeft() {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(actor.Size, 0)
	}
	// 底部中点为锚点
	op.GeoM.Translate(pos.X-actor.Size/2, pos.Y-actor.Size)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(frame, op)
}

// frameImage 从精灵图中切出第 index 帧（按行排列）
func (s *RenderSystem) frameImage(sheet *ebiten.Image, index int) *ebiten.Image {
	cols := sheet.Bounds().Dx() / s.frameWidth
	if cols <= 0 {
		return nil
	}
	sx := (index % cols) * s.frameWidth
	sy := (index / cols) * s.frameHeight
	if sy+s.frameHeight > sheet.Bounds().Dy() {
		return nil
	}
	return sheet.SubImage(image.Rect(sx, sy, sx+s.frameWidth, sy+s.frameHeight)).(*ebiten.Image)
}

// drawPlaceholder 没有精灵图时的简笔角色：身体、头、朝向标记
func (s *RenderSystem) drawPlaceholder(screen *ebiten.Image, actor *components.ActorComponent, pos *components.PositionComponent, anim *components.AnimationComponent) {
	clr := placeholderP1
	if actor.Side == types.SidePlayer2 {
		clr = placeholderP2
	}
	base := ""
	if anim != nil {
		base = anim.Base
	}

	bodyW := float32(actor.Size * 0.22)
	bodyH := float32(actor.Size * 0.5)
	x, y := float32(pos.X), float32(pos.Y)

	switch base {
	case types.ClipHurt:
		clr = placeholderHit
	case types.ClipDying:
		if anim.IsFinished {
			// 倒地
			vector.DrawFilledRect(screen, x-bodyH/2, y-bodyW, bodyH, bodyW, clr, true)
			return
		}
	}

	vector.DrawFilledRect(screen, x-bodyW/2, y-bodyH, bodyW, bodyH, clr, true)
	vector.DrawFilledCircle(screen, x, y-bodyH-bodyW*0.6, bodyW*0.55, clr, true)

	dir := float32(1)
	if actor.FacesLeft() {
		dir = -1
	}
	reach := bodyW * 0.6
	if base == types.ClipAttacking {
		reach = bodyW * 1.6
	}
	vector.StrokeLine(screen, x, y-bodyH*0.7, x+dir*(bodyW/2+reach), y-bodyH*0.7, 6, clr, true)
}

func (s *RenderSystem) drawStatPanels(screen *ebiten.Image) {
	entities := ecs.GetEntitiesWith2[*components.StatPanelComponent, *components.PositionComponent](s.entityManager)
	for _, id := range entities {
		panel, _ := ecs.GetComponent[*components.StatPanelComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !panel.Revealed {
			continue
		}

		lines := StatPanelLines(panel)
		face := s.face(13)
		rowH := config.StatPanelRowGap + 4
		height := float32(float64(len(lines))*rowH + 2*config.StatPanelPadding)
		vector.DrawFilledRect(screen, float32(pos.X), float32(pos.Y), config.StatPanelWidth, height, panelFill, true)
		if face == nil {
			continue
		}
		for i, line := range lines {
			op := &text.DrawOptions{}
			op.GeoM.Translate(pos.X+config.StatPanelPadding, pos.Y+config.StatPanelPadding+float64(i)*rowH)
			op.ColorScale.ScaleWithColor(panelText)
			text.Draw(screen, line, face, op)
		}
	}
}

// StatPanelLines 面板上显示的全部行：固定属性 + HP / STAM
func StatPanelLines(panel *components.StatPanelComponent) []string {
	lines := make([]string, 0, len(panel.Lines)+2)
	lines = append(lines, panel.Lines...)
	lines = append(lines,
		fmt.Sprintf("HP   %.0f / %.0f", panel.Health, panel.MaxHealth),
		fmt.Sprintf("STAM %.0f / %.0f", panel.Stamina, panel.MaxStamina),
	)
	return lines
}

func (s *RenderSystem) drawLabels(screen *ebiten.Image) {
	entities := ecs.GetEntitiesWith2[*components.LabelComponent, *components.PositionComponent](s.entityManager)
	for _, id := range entities {
		label, _ := ecs.GetComponent[*components.LabelComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if label.Alpha <= 0 {
			continue
		}
		s.drawCenteredText(screen, label.Text, pos.X, pos.Y, label.FontSize*s.scaleOf(id), label.Color, label.Alpha, label.Outline, 2)
	}
}

func (s *RenderSystem) drawFloatingTexts(screen *ebiten.Image) {
	entities := ecs.GetEntitiesWith2[*components.FloatingTextComponent, *components.PositionComponent](s.entityManager)
	for _, id := range entities {
		ft, _ := ecs.GetComponent[*components.FloatingTextComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if ft.Alpha <= 0 {
			continue
		}
		stroke := 1.0
		if ft.Emphasized {
			stroke = 3
		}
		s.drawCenteredText(screen, ft.Text, pos.X, pos.Y, ft.FontSize*s.scaleOf(id), ft.Color, ft.Alpha, true, stroke)
	}
}

func (s *RenderSystem) scaleOf(id ecs.EntityID) float64 {
	if sc, ok := ecs.GetComponent[*components.ScaleComponent](s.entityManager, id); ok && sc.ScaleX > 0 {
		return sc.ScaleX
	}
	return 1
}

// drawCenteredText 以 (centerX, centerY) 为中心绘制带黑色描边的文字
func (s *RenderSystem) drawCenteredText(screen *ebiten.Image, str string, centerX, centerY, size float64, clr color.RGBA, alpha float64, outline bool, stroke float64) {
	face := s.face(size)
	if face == nil || str == "" {
		return
	}
	width, height := text.Measure(str, face, 0)
	x := centerX - width/2
	y := centerY - height/2

	if outline {
		offsets := []struct{ dx, dy float64 }{
			{-1, -1}, {0, -1}, {1, -1},
			{-1, 0}, {1, 0},
			{-1, 1}, {0, 1}, {1, 1},
		}
		for _, o := range offsets {
			op := &text.DrawOptions{}
			op.GeoM.Translate(x+o.dx*stroke, y+o.dy*stroke)
			op.ColorScale.ScaleWithColor(outlineColor)
			op.ColorScale.ScaleAlpha(float32(alpha))
			text.Draw(screen, str, face, op)
		}
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.ColorScale.ScaleAlpha(float32(alpha))
	text.Draw(screen, str, face, op)
}

func (s *RenderSystem) face(size float64) *text.GoTextFace {
	if s.fonts == nil || size <= 0 {
		return nil
	}
	return s.fonts.Font(s.fontPath, size)
}
