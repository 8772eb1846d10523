package timeline

import (
	"time"

	"github.com/decker502/duel/pkg/utils"
)

// TweenSpec 数值补间参数
type TweenSpec struct {
	From     float64
	To       float64
	Duration time.Duration
	// Ease 为空时匀速
	Ease utils.EasingFunc
	// OnUpdate 每次推进时收到当前插值
	OnUpdate func(value float64)
	// OnComplete 到达终点后调用一次（OnUpdate(To) 之后）
	OnComplete func()
}

// Tween 活动补间
// 完成本身是一个内部定时器，所以它和其它延迟调用共享同一个全序
type Tween struct {
	spec      TweenSpec
	start     time.Duration
	done      *Timer
	cancelled bool
	finished  bool
}

// Tween 启动补间，立即以 From 调用一次 OnUpdate
func (tl *Timeline) Tween(spec TweenSpec) *Tween {
	if spec.Ease == nil {
		spec.Ease = utils.EaseLinear
	}
	if spec.Duration < 0 {
		spec.Duration = 0
	}
	tw := &Tween{
		spec:  spec,
		start: tl.now,
	}
	if spec.OnUpdate != nil {
		spec.OnUpdate(spec.From)
	}
	tl.tweens = append(tl.tweens, tw)
	tw.done = tl.After(spec.Duration, tw.complete)
	return tw
}

// Done 已到达终点或已取消
func (tw *Tween) Done() bool {
	return tw.finished || tw.cancelled
}

// Cancel 停在当前值，不再调用 OnUpdate / OnComplete
func (tw *Tween) Cancel() {
	if tw == nil || tw.cancelled || tw.finished {
		return
	}
	tw.cancelled = true
	tw.done.Cancel()
}

func (tw *Tween) step(now time.Duration) {
	if tw.spec.Duration == 0 {
		return
	}
	elapsed := now - tw.start
	if elapsed >= tw.spec.Duration {
		// 终点由完成定时器负责，保证 OnUpdate(To) 与 OnComplete 同时发生
		return
	}
	p := float64(elapsed) / float64(tw.spec.Duration)
	if tw.spec.OnUpdate != nil {
		tw.spec.OnUpdate(utils.Lerp(tw.spec.From, tw.spec.To, tw.spec.Ease(p)))
	}
}

func (tw *Tween) complete() {
	if tw.cancelled {
		return
	}
	tw.finished = true
	if tw.spec.OnUpdate != nil {
		tw.spec.OnUpdate(tw.spec.To)
	}
	if tw.spec.OnComplete != nil {
		tw.spec.OnComplete()
	}
}
