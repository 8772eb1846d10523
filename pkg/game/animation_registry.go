package game

import (
	"log"
	"time"

	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/types"
)

// ClipSpec 一个已注册片段
type ClipSpec struct {
	Name   string // 注册名，玩家2 带后缀
	Base   string // 基础名（idle、attacking ...）
	Side   types.Side
	Start  int // 精灵图中的起始帧
	Frames int
	FPS    float64
	Loop   bool
}

// Duration 一次性播放的时长
func (c ClipSpec) Duration() time.Duration {
	if c.FPS <= 0 || c.Frames <= 0 {
		return 0
	}
	return time.Duration(float64(c.Frames) / c.FPS * float64(time.Second))
}

// FrameAt 返回播放 elapsed 后应显示的帧（相对片段起点）以及是否已经播完
func (c ClipSpec) FrameAt(elapsed time.Duration) (frame int, finished bool) {
	if c.Frames <= 0 || c.FPS <= 0 {
		return 0, true
	}
	n := int(elapsed.Seconds() * c.FPS)
	if c.Loop {
		return n % c.Frames, false
	}
	if n >= c.Frames {
		return c.Frames - 1, true
	}
	return n, false
}

// AnimationRegistry 双方角色的片段目录
// 同名片段重新注册时直接替换（场景重启不会报错）
type AnimationRegistry struct {
	cfg   *config.AnimationConfig
	clips map[string]ClipSpec
}

// NewAnimationRegistry 创建目录；cfg 为 nil 时使用内置默认值
func NewAnimationRegistry(cfg *config.AnimationConfig) *AnimationRegistry {
	if cfg == nil {
		cfg = config.DefaultAnimationConfig()
	}
	return &AnimationRegistry{
		cfg:   cfg,
		clips: make(map[string]ClipSpec),
	}
}

// Register 为一方注册全部片段
// fps 是资源自带的帧率元数据（片段基础名 -> 帧率），缺省的片段使用默认帧率
func (r *AnimationRegistry) Register(side types.Side, fps map[string]float64) {
	for _, def := range r.cfg.Clips {
		rate := r.cfg.DefaultFPS
		if v, ok := fps[def.Name]; ok && v > 0 {
			rate = v
		}
		name := r.ClipName(side, def.Name)
		if _, exists := r.clips[name]; exists {
			log.Printf("[AnimationRegistry] Replacing clip %s", name)
		}
		r.clips[name] = ClipSpec{
			Name:   name,
			Base:   def.Name,
			Side:   side,
			Start:  def.Start,
			Frames: def.Frames,
			FPS:    rate,
			Loop:   def.Loop,
		}
	}
}

// ClipName 一方某个基础片段的注册名
func (r *AnimationRegistry) ClipName(side types.Side, clip string) string {
	if side.IsPlayer2() {
		return clip + r.cfg.Player2Suffix
	}
	return clip
}

// Lookup 按注册名查找
func (r *AnimationRegistry) Lookup(name string) (ClipSpec, bool) {
	spec, ok := r.clips[name]
	return spec, ok
}

// Duration 片段时长，未注册时为 0
func (r *AnimationRegistry) Duration(name string) time.Duration {
	return r.clips[name].Duration()
}

// FrameSize 精灵图单帧尺寸
func (r *AnimationRegistry) FrameSize() (w, h int) {
	return r.cfg.FrameWidth, r.cfg.FrameHeight
}

// ReactionClip 结果类别 -> 反应片段
//
//	DODGE -> dodging, HIT -> hurt,
//	BLOCK / PARRY / COUNTER* / RIPOSTE* -> blocking,
//	ATTACK / CRIT -> attacking, MISS -> 无
//
// 未知类别返回 false 并打印警告
func (r *AnimationRegistry) ReactionClip(result types.ResultType) (string, bool) {
	switch result {
	case types.ResultDodge:
		return types.ClipDodging, true
	case types.ResultHit:
		return types.ClipHurt, true
	case types.ResultBlock, types.ResultParry,
		types.ResultCounter, types.ResultCounterCrit,
		types.ResultRiposte, types.ResultRiposteCrit:
		return types.ClipBlocking, true
	case types.ResultAttack, types.ResultCrit:
		return types.ClipAttacking, true
	case types.ResultMiss, types.ResultExhausted:
		return "", false
	}
	log.Printf("[AnimationRegistry] Warning: unknown result %s has no clip", result)
	return "", false
}

// ResultsForClip 反向查表：哪些结果类别会播放这个片段
func (r *AnimationRegistry) ResultsForClip(clip string) []types.ResultType {
	var out []types.ResultType
	for code := types.ResultMiss; code <= types.ResultHit; code++ {
		switch code {
		case types.ResultMiss, types.ResultExhausted:
			continue
		}
		if c, _ := r.ReactionClip(code); c == clip {
			out = append(out, code)
		}
	}
	return out
}
