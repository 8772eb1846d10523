package systems

import (
	"github.com/decker502/duel/pkg/components"
	"github.com/decker502/duel/pkg/ecs"
	"github.com/decker502/duel/pkg/utils"
)

// StatPanelSystem 属性面板滑入
type StatPanelSystem struct {
	entityManager *ecs.EntityManager
}

// NewStatPanelSystem 创建面板系统
func NewStatPanelSystem(em *ecs.EntityManager) *StatPanelSystem {
	return &StatPanelSystem{entityManager: em}
}

// Update 已显示的面板按 EaseOutCubic 从隐藏位置滑到展开位置
func (s *StatPanelSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith2[*components.StatPanelComponent, *components.PositionComponent](s.entityManager)

	for _, id := range entities {
		panel, _ := ecs.GetComponent[*components.StatPanelComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		if !panel.Revealed {
			pos.X = panel.HiddenX
			continue
		}
		panel.Elapsed += deltaTime
		t := 1.0
		if panel.Duration > 0 {
			t = utils.Clamp(panel.Elapsed/panel.Duration, 0, 1)
		}
		pos.X = utils.Lerp(panel.HiddenX, panel.ShownX, utils.EaseOutCubic(t))
	}
}
