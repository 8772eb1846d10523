package config

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/decker502/duel/pkg/embedded"
)

// TestLoadPlaybackConfigFromRepo 仓库里的配置文件必须与内置默认值一致
func TestLoadPlaybackConfigFromRepo(t *testing.T) {
	embedded.InitFromDir("../..")

	cfg, err := LoadPlaybackConfig(PlaybackConfigPath)
	if err != nil {
		t.Fatalf("LoadPlaybackConfig error: %v", err)
	}

	def := DefaultPlaybackConfig()
	if cfg.Step != def.Step {
		t.Errorf("step = %+v, 期望 %+v", cfg.Step, def.Step)
	}
	if cfg.Approach != def.Approach {
		t.Errorf("approach = %+v, 期望 %+v", cfg.Approach, def.Approach)
	}
	if cfg.Victory != def.Victory {
		t.Errorf("victory = %+v, 期望 %+v", cfg.Victory, def.Victory)
	}
	if cfg.Text != def.Text {
		t.Errorf("text = %+v, 期望 %+v", cfg.Text, def.Text)
	}
	if strings.Join(cfg.Countdown.Labels, ",") != "3,2,1,Fight!" {
		t.Errorf("countdown labels = %v", cfg.Countdown.Labels)
	}
	if cfg.ResetRestartDelay != 500*time.Millisecond {
		t.Errorf("reset_restart_delay = %v", cfg.ResetRestartDelay)
	}
}

// TestLoadPlaybackConfigPartial 只写了部分字段时其余保持默认值
func TestLoadPlaybackConfigPartial(t *testing.T) {
	embedded.Init(nil, fstest.MapFS{
		"data/config/playback.yaml": {Data: []byte("step:\n  defense_delay: 80ms\n")},
	})

	cfg, err := LoadPlaybackConfig(PlaybackConfigPath)
	if err != nil {
		t.Fatalf("LoadPlaybackConfig error: %v", err)
	}
	if cfg.Step.DefenseDelay != 80*time.Millisecond {
		t.Errorf("defense_delay = %v, 期望 80ms", cfg.Step.DefenseDelay)
	}
	if cfg.Step.CommitDelay != 1200*time.Millisecond {
		t.Errorf("commit_delay = %v, 期望保持默认 1200ms", cfg.Step.CommitDelay)
	}
}

func TestPlaybackConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *PlaybackConfig)
	}{
		{"负的防守延迟", func(c *PlaybackConfig) { c.Step.DefenseDelay = -time.Millisecond }},
		{"空倒计时", func(c *PlaybackConfig) { c.Countdown.Labels = nil }},
		{"嘲讽次数为负", func(c *PlaybackConfig) { c.Victory.TauntCount = -1 }},
		{"攻击插入点越界", func(c *PlaybackConfig) { c.Victory.FlourishAfter = 9 }},
		{"飘字时长为 0", func(c *PlaybackConfig) { c.Text.Duration = 0 }},
	}

	if err := DefaultPlaybackConfig().Validate(); err != nil {
		t.Fatalf("默认配置应该合法: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPlaybackConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("期望验证失败")
			}
		})
	}
}

func TestLoadPlaybackConfigBadYAML(t *testing.T) {
	embedded.Init(nil, fstest.MapFS{
		"data/config/playback.yaml": {Data: []byte("step:\n  defense_delay: fast\n")},
	})
	if _, err := LoadPlaybackConfig(PlaybackConfigPath); err == nil {
		t.Error("无法解析的时长应该报错")
	}
}

func TestCountdownTotal(t *testing.T) {
	c := DefaultPlaybackConfig().Countdown
	// 3 × 750ms + 500 + 750 + 500
	want := 3*750*time.Millisecond + 1750*time.Millisecond
	if got := c.Total(); got != want {
		t.Errorf("Total = %v, 期望 %v", got, want)
	}
}
