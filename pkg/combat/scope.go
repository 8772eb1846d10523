package combat

import (
	"time"

	"github.com/decker502/duel/pkg/timeline"
	"github.com/decker502/duel/pkg/types"
)

// Scope 回放"代"的守卫
//
// 引擎调度的每个回调都先经过 Scope：注册时记下当前代号，触发时代号已变则丢弃。
// Invalidate 使代号加一并取消所有记录的句柄，用于重置。
type Scope struct {
	stage   Stage
	gen     uint64
	handles []timeline.Handle
}

// NewScope 创建守卫
func NewScope(stage Stage) *Scope {
	return &Scope{stage: stage}
}

// Generation 当前代号
func (s *Scope) Generation() uint64 {
	return s.gen
}

// Bind 包装回调，代号变化后调用为空操作
func (s *Scope) Bind(fn func()) func() {
	if fn == nil {
		return nil
	}
	gen := s.gen
	return func() {
		if gen != s.gen {
			return
		}
		fn()
	}
}

// After 受守卫的延迟调用
func (s *Scope) After(d time.Duration, fn func()) timeline.Handle {
	h := s.stage.After(d, s.Bind(fn))
	s.track(h)
	return h
}

// Tween 受守卫的补间，OnUpdate 与 OnComplete 都会被包装
func (s *Scope) Tween(spec timeline.TweenSpec) timeline.Handle {
	gen := s.gen
	if update := spec.OnUpdate; update != nil {
		spec.OnUpdate = func(v float64) {
			if gen == s.gen {
				update(v)
			}
		}
	}
	spec.OnComplete = s.Bind(spec.OnComplete)
	h := s.stage.Tween(spec)
	s.track(h)
	return h
}

// PlayClip 受守卫的片段播放
func (s *Scope) PlayClip(side types.Side, clip string, onComplete func()) {
	s.stage.PlayClip(side, clip, s.Bind(onComplete))
}

// Invalidate 进入新的一代：之前的回调全部失效，记录的句柄全部取消
func (s *Scope) Invalidate() {
	s.gen++
	for _, h := range s.handles {
		h.Cancel()
	}
	s.handles = s.handles[:0]
}

// track 记录句柄，顺带丢掉已经结束的
func (s *Scope) track(h timeline.Handle) {
	if h == nil {
		return
	}
	s.handles = append(timeline.Prune(s.handles), h)
}
