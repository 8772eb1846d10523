package systems

import (
	"github.com/decker502/duel/pkg/components"
	"github.com/decker502/duel/pkg/ecs"
)

// LifetimeSystem 让飘字这类临时实体按时消失
//
// 过期实体只做删除标记，同一帧中后续系统仍可读到它最后的状态，
// 场景在帧末统一调用 RemoveMarkedEntities。
type LifetimeSystem struct {
	entityManager *ecs.EntityManager
}

// NewLifetimeSystem 创建生命周期系统
func NewLifetimeSystem(em *ecs.EntityManager) *LifetimeSystem {
	return &LifetimeSystem{entityManager: em}
}

// Update 推进计时，返回本次过期的实体数
func (s *LifetimeSystem) Update(deltaTime float64) int {
	expired := 0
	s.each(func(id ecs.EntityID, l *components.LifetimeComponent) {
		l.Elapsed += deltaTime
		if l.Elapsed >= l.Duration {
			s.expire(id, l)
			expired++
		}
	})
	return expired
}

// ExpireAll 立即结束所有临时实体（重置回放时清场）
func (s *LifetimeSystem) ExpireAll() int {
	expired := 0
	s.each(func(id ecs.EntityID, l *components.LifetimeComponent) {
		s.expire(id, l)
		expired++
	})
	return expired
}

// Active 尚未过期的临时实体数
func (s *LifetimeSystem) Active() int {
	n := 0
	s.each(func(ecs.EntityID, *components.LifetimeComponent) { n++ })
	return n
}

// each 遍历未过期的实体
func (s *LifetimeSystem) each(fn func(ecs.EntityID, *components.LifetimeComponent)) {
	for _, id := range ecs.GetEntitiesWith1[*components.LifetimeComponent](s.entityManager) {
		l, ok := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)
		if !ok || l.Expired {
			continue
		}
		fn(id, l)
	}
}

func (s *LifetimeSystem) expire(id ecs.EntityID, l *components.LifetimeComponent) {
	l.Expired = true
	s.entityManager.DestroyEntity(id)
}
