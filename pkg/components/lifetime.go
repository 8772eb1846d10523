package components

// LifetimeComponent 临时实体（飘字）的存活计时
type LifetimeComponent struct {
	Duration float64 // 存活时长(秒)
	Elapsed  float64 // 已存活(秒)
	Expired  bool
}

// Progress 已经过的比例 [0, 1]；过期后恒为 1
func (l *LifetimeComponent) Progress() float64 {
	if l.Expired || l.Duration <= 0 {
		return 1
	}
	p := l.Elapsed / l.Duration
	if p > 1 {
		return 1
	}
	return p
}
