// verify_combat 在无界面舞台上完整回放一份对战记录，打印演出时间线与最终数值
//
// 用法：
//
//	go run ./cmd/verify_combat -combat data/combat/sample.yaml
//	go run ./cmd/verify_combat -combat my.json -reset-at 8s
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/decker502/duel/pkg/combat"
	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/embedded"
	"github.com/decker502/duel/pkg/game"
	"github.com/decker502/duel/pkg/stage"
	"github.com/decker502/duel/pkg/timeline"
	"github.com/decker502/duel/pkg/types"
)

var (
	combatPath = flag.String("combat", "data/combat/sample.yaml", "对战记录文件")
	root       = flag.String("root", ".", "包含 data/ 的根目录")
	resetAt    = flag.Duration("reset-at", 0, "在该时刻重置一次（验证重置后重新开始），0 表示不重置")
	verbose    = flag.Bool("verbose", false, "显示引擎日志")
)

// traceBank 把音效播放打印到时间线上，播放立即结束
type traceBank struct {
	tl  *timeline.Timeline
	out io.Writer
}

func (b *traceBank) Preload(cue, path string) error { return nil }

func (b *traceBank) Play(cue string, volume float64, onComplete func()) game.SoundHandle {
	fmt.Fprintf(b.out, "[%8.3fs] cue    %s (%.2f)\n", b.tl.Now().Seconds(), cue, volume)
	if onComplete != nil {
		onComplete()
	}
	return traceHandle{}
}

type traceHandle struct{}

func (traceHandle) Stop()           {}
func (traceHandle) IsPlaying() bool { return false }

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	embedded.InitFromDir(*root)

	if err := run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(out io.Writer) error {
	ctx := context.Background()
	combatLog, err := combat.FileSource{Path: *combatPath}.LoadCombat(ctx)
	if err != nil {
		return err
	}
	playback, err := config.LoadPlaybackConfig("data/config/playback.yaml")
	if err != nil {
		return err
	}
	animation, err := config.LoadAnimationConfig("data/config/animations.yaml")
	if err != nil {
		return err
	}
	audioCfg, err := config.LoadAudioConfig("data/config/audio.yaml")
	if err != nil {
		return err
	}

	registry := game.NewAnimationRegistry(animation)
	for _, side := range types.Sides {
		registry.Register(side, combatLog.Fighter(side).FPS)
	}

	tl := timeline.New()
	h := stage.NewHeadless(tl, registry)
	scope := combat.NewScope(h)
	cues := game.NewCombatAudio(&traceBank{tl: tl, out: out}, scope, nil, audioCfg)
	if err := cues.Initialize(ctx); err != nil {
		return err
	}

	victory := false
	engine, err := combat.NewEngine(combat.EngineDeps{
		Stage:  h,
		Scope:  scope,
		Clips:  registry,
		Cues:   cues,
		Bars:   h,
		Config: playback,
		Signals: combat.Signals{
			OnStepComplete: func(isLast bool) {
				fmt.Fprintf(out, "[%8.3fs] step   done (last=%t)\n", tl.Now().Seconds(), isLast)
			},
			OnVictoryComplete: func() { victory = true },
		},
	})
	if err != nil {
		return err
	}
	if err := engine.Load(combatLog); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s vs %s | %d actions | engine %s\n",
		combatLog.Player1.DisplayName(types.SidePlayer1),
		combatLog.Player2.DisplayName(types.SidePlayer2),
		len(combatLog.Actions), combatLog.EngineVersion())

	if err := engine.Start(); err != nil {
		return err
	}
	if *resetAt > 0 {
		tl.After(*resetAt, func() {
			fmt.Fprintf(out, "[%8.3fs] reset\n", tl.Now().Seconds())
			engine.Reset()
			scope.After(playback.ResetRestartDelay, func() {
				if err := engine.Start(); err != nil {
					fmt.Fprintf(out, "restart failed: %v\n", err)
				}
			})
		})
	}

	idle := tl.RunUntilIdle(time.Hour)
	for _, e := range h.Events() {
		fmt.Fprintln(out, e)
	}

	fmt.Fprintln(out, "---")
	for _, side := range types.Sides {
		st := engine.Bars().State(side)
		fmt.Fprintf(out, "%s: HP %.0f/%.0f  STAM %.0f/%.0f  clip=%s\n", side,
			st.CommittedHealth, st.MaxHealth, st.CommittedStamina, st.MaxStamina, h.CurrentClip(side))
	}
	fmt.Fprintf(out, "state=%s victory=%t finished at %.3fs\n", engine.State(), victory, tl.Now().Seconds())
	if !idle {
		return fmt.Errorf("timeline still busy after an hour of playback")
	}
	if !victory {
		return fmt.Errorf("playback did not reach the victory epilogue")
	}
	return nil
}
