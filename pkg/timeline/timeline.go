// Package timeline 提供确定性的单线程调度器
//
// 所有"等待"都是挂在虚拟时钟上的回调：延迟调用（After）和数值补间（Tween）。
// 时钟只在 Update / Advance 中前进，因此在游戏循环里它跟随 ebiten 的 tick，
// 在测试里则可以精确地快进到任意时刻。
//
// 回调按 (到期时间, 注册顺序) 严格排序触发；回调内新注册且已到期的定时器
// 会在同一次 Advance 中继续触发。
package timeline

import (
	"container/heap"
	"time"
)

// Handle 可取消的调度句柄
type Handle interface {
	Cancel()
	// Done 已触发、已结束或已取消
	Done() bool
}

// Prune 原地去掉 nil 与已结束的句柄
func Prune(handles []Handle) []Handle {
	live := handles[:0]
	for _, h := range handles {
		if h != nil && !h.Done() {
			live = append(live, h)
		}
	}
	for i := len(live); i < len(handles); i++ {
		handles[i] = nil
	}
	return live
}

// Timeline 虚拟时钟 + 定时器堆 + 活动补间列表
// 非并发安全：只能在游戏循环（或测试）所在的线程使用
type Timeline struct {
	now    time.Duration
	seq    uint64
	timers timerHeap
	tweens []*Tween
}

// New 创建一个时钟为 0 的时间线
func New() *Timeline {
	return &Timeline{}
}

// Now 当前虚拟时间（自创建以来）
func (tl *Timeline) Now() time.Duration {
	return tl.now
}

// Pending 尚未触发且未取消的定时器数量（包括补间的完成定时器）
func (tl *Timeline) Pending() int {
	n := 0
	for _, t := range tl.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// After 在 d 之后调用 fn
// d <= 0 时在下一次 Update/Advance（或当前正在进行的 Advance）中触发
func (tl *Timeline) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	tl.seq++
	t := &Timer{
		tl:  tl,
		due: tl.now + d,
		seq: tl.seq,
		fn:  fn,
	}
	heap.Push(&tl.timers, t)
	return t
}

// Update 按帧推进，deltaTime 单位为秒（与场景的 Update(deltaTime float64) 一致）
func (tl *Timeline) Update(deltaTime float64) {
	if deltaTime <= 0 {
		tl.Advance(0)
		return
	}
	tl.Advance(time.Duration(deltaTime * float64(time.Second)))
}

// Advance 把时钟推进 d，按顺序触发期间到期的所有定时器
// 每个定时器触发前，活动补间会先被推进到该时刻
func (tl *Timeline) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	target := tl.now + d

	for len(tl.timers) > 0 {
		next := tl.timers[0]
		if next.cancelled {
			heap.Pop(&tl.timers)
			continue
		}
		if next.due > target {
			break
		}
		heap.Pop(&tl.timers)
		tl.now = next.due
		tl.stepTweens()
		next.fired = true
		next.fn()
	}

	tl.now = target
	tl.stepTweens()
}

// RunUntilIdle 不断快进到下一个定时器，直到没有待触发定时器或超过 limit
// 返回 true 表示已空闲
func (tl *Timeline) RunUntilIdle(limit time.Duration) bool {
	deadline := tl.now + limit
	for {
		next, ok := tl.peek()
		if !ok {
			return true
		}
		if next.due > deadline {
			tl.Advance(deadline - tl.now)
			return false
		}
		tl.Advance(next.due - tl.now)
	}
}

// CancelAll 取消所有定时器与补间（场景退出时使用）
func (tl *Timeline) CancelAll() {
	for _, t := range tl.timers {
		t.cancelled = true
	}
	tl.timers = tl.timers[:0]
	for _, tw := range tl.tweens {
		tw.cancelled = true
	}
	tl.tweens = nil
}

func (tl *Timeline) peek() (*Timer, bool) {
	for len(tl.timers) > 0 {
		t := tl.timers[0]
		if !t.cancelled {
			return t, true
		}
		heap.Pop(&tl.timers)
	}
	return nil, false
}

// stepTweens 把所有活动补间推进到当前时刻，并清理已结束的补间
func (tl *Timeline) stepTweens() {
	if len(tl.tweens) == 0 {
		return
	}
	// 先拷贝一份：OnUpdate 里可能创建新的补间
	snapshot := append([]*Tween(nil), tl.tweens...)
	for _, tw := range snapshot {
		if tw.cancelled || tw.finished {
			continue
		}
		tw.step(tl.now)
	}
	active := tl.tweens[:0]
	for _, tw := range tl.tweens {
		if !tw.cancelled && !tw.finished {
			active = append(active, tw)
		}
	}
	for i := len(active); i < len(tl.tweens); i++ {
		tl.tweens[i] = nil
	}
	tl.tweens = active
}

// Timer 延迟调用句柄
type Timer struct {
	tl        *Timeline
	due       time.Duration
	seq       uint64
	fn        func()
	index     int
	cancelled bool
	fired     bool
}

// Cancel 取消定时器；已触发或已取消时为空操作
func (t *Timer) Cancel() {
	if t == nil || t.cancelled || t.fired {
		return
	}
	t.cancelled = true
	if t.index >= 0 && t.index < len(t.tl.timers) && t.tl.timers[t.index] == t {
		heap.Remove(&t.tl.timers, t.index)
	}
}

// Done 已触发或已取消
func (t *Timer) Done() bool {
	return t.fired || t.cancelled
}

// timerHeap 按 (due, seq) 排序的最小堆
type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
