package systems

import (
	"github.com/decker502/duel/pkg/components"
	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/ecs"
	"github.com/decker502/duel/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
)

// ClipSpec 切换片段需要的数据（game.ClipSpec 的子集）
type ClipSpec struct {
	Name   string
	Base   string
	Start  int
	Frames int
	FPS    float64
	Loop   bool
}

// AnimationSystem 管理所有角色的帧动画
// 一次性片段播完后停在最后一帧，并调用一次完成回调
type AnimationSystem struct {
	entityManager *ecs.EntityManager
}

// NewAnimationSystem 创建一个新的动画系统
func NewAnimationSystem(em *ecs.EntityManager) *AnimationSystem {
	return &AnimationSystem{
		entityManager: em,
	}
}

// Play 在实体上切换片段
// 旧片段的完成回调被丢弃；出招与格挡时角色前置
func (s *AnimationSystem) Play(id ecs.EntityID, clip ClipSpec, sheet *ebiten.Image, onComplete func()) {
	anim, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id)
	if !ok {
		anim = &components.AnimationComponent{}
		ecs.AddComponent(s.entityManager, id, anim)
	}
	if sheet == nil {
		sheet = anim.Sheet
	}
	*anim = components.AnimationComponent{
		Clip:       clip.Name,
		Base:       clip.Base,
		Sheet:      sheet,
		StartFrame: clip.Start,
		FrameCount: clip.Frames,
		FPS:        clip.FPS,
		IsLooping:  clip.Loop,
		OnComplete: onComplete,
	}
	if clip.Loop {
		anim.OnComplete = nil
	}

	if actor, ok := ecs.GetComponent[*components.ActorComponent](s.entityManager, id); ok {
		actor.Depth = DepthForClip(clip.Base)
	}
}

// Interrupt 丢弃当前片段的完成回调，片段本身照常播完
func (s *AnimationSystem) Interrupt(id ecs.EntityID) {
	if anim, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id); ok {
		anim.OnComplete = nil
	}
}

// DepthForClip 出招/格挡的一方画在另一方之上
func DepthForClip(base string) int {
	switch base {
	case types.ClipAttacking, types.ClipBlocking:
		return config.ActorFrontDepth
	}
	return config.ActorDepth
}

// Update 推进所有动画
func (s *AnimationSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith1[*components.AnimationComponent](s.entityManager)

	for _, id := range entities {
		anim, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id)
		if !ok || anim.IsFinished {
			continue
		}

		anim.Elapsed += deltaTime
		if anim.IsLooping || anim.Elapsed < anim.Duration() {
			continue
		}

		// 非循环动画: 停在最后一帧并标记完成
		anim.IsFinished = true
		if cb := anim.OnComplete; cb != nil {
			anim.OnComplete = nil
			cb()
		}
	}
}
