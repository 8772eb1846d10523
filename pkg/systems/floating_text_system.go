package systems

import (
	"github.com/decker502/duel/pkg/components"
	"github.com/decker502/duel/pkg/ecs"
)

// FloatingTextSystem 飘字上浮与淡出
// 在 LifetimeSystem 之后更新；过期实体在 RemoveMarkedEntities 之前仍可查询
type FloatingTextSystem struct {
	entityManager *ecs.EntityManager
}

// NewFloatingTextSystem 创建飘字系统
func NewFloatingTextSystem(em *ecs.EntityManager) *FloatingTextSystem {
	return &FloatingTextSystem{entityManager: em}
}

// Update 按生命周期进度计算位置与透明度
func (s *FloatingTextSystem) Update() {
	entities := ecs.GetEntitiesWith3[
		*components.FloatingTextComponent,
		*components.LifetimeComponent,
		*components.PositionComponent,
	](s.entityManager)

	for _, id := range entities {
		ft, _ := ecs.GetComponent[*components.FloatingTextComponent](s.entityManager, id)
		lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		progress := lifetime.Progress()
		pos.Y = ft.StartY - ft.Rise*progress
		ft.Alpha = 1 - progress
	}
}
