package combat

import (
	"fmt"
	"log"

	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/timeline"
	"github.com/decker502/duel/pkg/types"
	"github.com/decker502/duel/pkg/utils"
)

// VictoryEpilogue 胜利收尾：败者倒地、横幅、胜者转身离开并嘲讽
// 每场只能播放一次，重置后才能再次播放
type VictoryEpilogue struct {
	scope   *Scope
	stage   Stage
	clips   ClipCatalog
	cfg     *config.PlaybackConfig
	signals Signals

	combat *CombatLog
	played bool
	labels []Label
}

// NewVictoryEpilogue 创建胜利收尾
func NewVictoryEpilogue(scope *Scope, stage Stage, clips ClipCatalog, cfg *config.PlaybackConfig, signals Signals) *VictoryEpilogue {
	return &VictoryEpilogue{
		scope:   scope,
		stage:   stage,
		clips:   clips,
		cfg:     cfg,
		signals: signals,
	}
}

// SetCombat 设置当前对战（用于把胜者 ID 映射到一方，以及取名字）
func (v *VictoryEpilogue) SetCombat(combat *CombatLog) {
	v.combat = combat
}

// Played 本场是否已经播放
func (v *VictoryEpilogue) Played() bool {
	return v.played
}

// Play 播放收尾
// 重复调用只打印警告；胜者 ID 不属于任何一方时什么也不播放
func (v *VictoryEpilogue) Play(winnerID uint64) error {
	if v.played {
		log.Printf("[VictoryEpilogue] Warning: epilogue already played, ignoring winner %d", winnerID)
		return nil
	}
	if v.combat == nil {
		return ErrNotReady
	}
	winner, ok := v.combat.SideOf(winnerID)
	if !ok {
		log.Printf("[VictoryEpilogue] 错误: invalid winner id %d", winnerID)
		return fmt.Errorf("winner %d: %w", winnerID, ErrUnknownWinner)
	}
	v.played = true
	loser := winner.Opponent()
	log.Printf("[VictoryEpilogue] %s wins", winner)

	v.play(loser, types.ClipDying, nil)
	v.banner(v.combat.Fighter(winner).DisplayName(winner))

	vt := v.cfg.Victory
	v.scope.After(vt.Delay, func() {
		v.stage.SetFacing(winner, true)
		v.play(winner, types.ClipWalking, nil)

		from, _ := v.stage.ActorPosition(winner)
		to := from - vt.WalkDistance
		if winner.IsPlayer2() {
			to = from + vt.WalkDistance
		}
		v.scope.Tween(timeline.TweenSpec{
			From:     from,
			To:       to,
			Duration: vt.WalkDuration,
			Ease:     utils.EaseLinear,
			OnUpdate: func(x float64) {
				v.stage.SetActorX(winner, x)
			},
			OnComplete: func() {
				v.taunt(winner, 0)
			},
		})
	})
	return nil
}

// banner 标题淡入，随后胜者名字从左侧滑入
func (v *VictoryEpilogue) banner(name string) {
	vt := v.cfg.Victory
	cx, cy := v.stage.Center()

	title := v.stage.NewLabel("Victory", cx, cy-90, LabelVictoryTitle)
	title.SetAlpha(0)
	v.labels = append(v.labels, title)

	v.scope.Tween(timeline.TweenSpec{
		From:     0,
		To:       1,
		Duration: vt.TitleFade,
		Ease:     utils.EaseOutQuad,
		OnUpdate: title.SetAlpha,
		OnComplete: func() {
			startX := cx - vt.NameSlideOffset
			nameLabel := v.stage.NewLabel(name, startX, cy-10, LabelVictoryName)
			nameLabel.SetAlpha(0)
			v.labels = append(v.labels, nameLabel)

			v.scope.Tween(timeline.TweenSpec{
				From:     0,
				To:       1,
				Duration: vt.NameSlide,
				Ease:     utils.EaseOutCubic,
				OnUpdate: func(p float64) {
					nameLabel.SetAlpha(p)
					nameLabel.SetPosition(utils.Lerp(startX, cx, p), cy-10)
				},
			})
		},
	})
}

// taunt 嘲讽循环，第 FlourishAfter 次之后插入一次攻击动作
func (v *VictoryEpilogue) taunt(winner types.Side, count int) {
	vt := v.cfg.Victory
	if count >= vt.TauntCount {
		v.play(winner, types.ClipIdle, nil)
		log.Printf("[VictoryEpilogue] Epilogue complete")
		v.signals.victoryComplete()
		return
	}

	next := func() { v.taunt(winner, count+1) }
	if count == vt.FlourishAfter {
		v.play(winner, types.ClipAttacking, func() {
			v.play(winner, types.ClipTaunting, next)
		})
		return
	}
	v.play(winner, types.ClipTaunting, next)
}

// Reset 清理横幅并允许再次播放
func (v *VictoryEpilogue) Reset() {
	for _, l := range v.labels {
		l.Destroy()
	}
	v.labels = nil
	v.played = false
}

func (v *VictoryEpilogue) play(side types.Side, clip string, onComplete func()) {
	v.scope.PlayClip(side, v.clips.ClipName(side, clip), onComplete)
}
