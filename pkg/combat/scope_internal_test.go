package combat

import (
	"testing"
	"time"

	"github.com/decker502/duel/pkg/timeline"
)

// timelineStage 只实现调度部分的舞台
type timelineStage struct {
	Stage
	tl *timeline.Timeline
}

func (s timelineStage) After(d time.Duration, fn func()) timeline.Handle {
	return s.tl.After(d, fn)
}

func (s timelineStage) Tween(spec timeline.TweenSpec) timeline.Handle {
	return s.tl.Tween(spec)
}

// TestScopeDropsFinishedHandles 长时间回放时已结束的句柄不会越积越多
func TestScopeDropsFinishedHandles(t *testing.T) {
	tl := timeline.New()
	scope := NewScope(timelineStage{tl: tl})

	fired := 0
	for i := 0; i < 1000; i++ {
		scope.After(time.Millisecond, func() { fired++ })
		scope.Tween(timeline.TweenSpec{From: 0, To: 1, Duration: time.Millisecond})
		tl.Advance(time.Millisecond)
	}
	if fired != 1000 {
		t.Fatalf("fired = %d, want 1000", fired)
	}
	// 只剩最后一次注册的那一对
	if len(scope.handles) > 2 {
		t.Errorf("scope retains %d handles", len(scope.handles))
	}

	// 仍在等待的句柄保留，Invalidate 时取消
	scope.After(time.Second, func() { fired++ })
	scope.After(time.Millisecond, func() {})
	tl.Advance(10 * time.Millisecond)
	scope.Invalidate()
	tl.Advance(2 * time.Second)
	if fired != 1000 {
		t.Errorf("pending callback ran after Invalidate")
	}
	if len(scope.handles) != 0 || tl.Pending() != 0 {
		t.Errorf("handles = %d pending = %d after Invalidate", len(scope.handles), tl.Pending())
	}
}
