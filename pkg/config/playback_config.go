package config

import (
	"fmt"
	"time"
)

// PlaybackConfigPath 回放时序配置的默认位置
const PlaybackConfigPath = "data/config/playback.yaml"

// PlaybackConfig 对战回放的全部时序参数
// 时长字段在 YAML 中写成 "50ms"、"1.5s" 这样的字符串
type PlaybackConfig struct {
	Step      StepTiming      `yaml:"step"`
	Countdown CountdownTiming `yaml:"countdown"`
	Approach  ApproachTiming  `yaml:"approach"`
	Victory   VictoryTiming   `yaml:"victory"`
	Text      TextTiming      `yaml:"text"`

	// ResetRestartDelay 按 R 重置后自动重新开始的等待时间
	ResetRestartDelay time.Duration `yaml:"reset_restart_delay"`
}

// StepTiming 单个回合内部的时序
type StepTiming struct {
	DefenseDelay   time.Duration `yaml:"defense_delay"`    // 攻击动画结束到防守反应之间
	CommitDelay    time.Duration `yaml:"commit_delay"`     // 回合开始到血条提交之间
	ExhaustedPause time.Duration `yaml:"exhausted_pause"`  // 体力耗尽回合的停顿
	InterStepDelay time.Duration `yaml:"inter_step_delay"` // 回合之间的间隔
	BarTween       time.Duration `yaml:"bar_tween"`        // 血条/体力条补间时长
}

// CountdownTiming 开场倒计时
type CountdownTiming struct {
	Labels         []string      `yaml:"labels"`          // 最后一个是 "Fight!"
	NumberDuration time.Duration `yaml:"number_duration"` // 每个数字
	FinalIn        time.Duration `yaml:"final_in"`
	FinalHold      time.Duration `yaml:"final_hold"`
	FinalOut       time.Duration `yaml:"final_out"`
	NumberScale    float64       `yaml:"number_scale"`
	FinalScale     float64       `yaml:"final_scale"`
}

// Total 整个倒计时的时长
func (c CountdownTiming) Total() time.Duration {
	if len(c.Labels) == 0 {
		return 0
	}
	numbers := time.Duration(len(c.Labels)-1) * c.NumberDuration
	return numbers + c.FinalIn + c.FinalHold + c.FinalOut
}

// ApproachTiming 入场跑向舞台中央
type ApproachTiming struct {
	Duration    time.Duration `yaml:"duration"`
	Offset      float64       `yaml:"offset"`       // 距中心的像素
	StatsReveal time.Duration `yaml:"stats_reveal"` // 入场开始后多久显示属性面板
	Settle      time.Duration `yaml:"settle"`       // 到位后多久开始第一回合
}

// VictoryTiming 胜利收尾
type VictoryTiming struct {
	Delay           time.Duration `yaml:"delay"`
	TitleFade       time.Duration `yaml:"title_fade"`
	NameSlide       time.Duration `yaml:"name_slide"`
	NameSlideOffset float64       `yaml:"name_slide_offset"`
	WalkDistance    float64       `yaml:"walk_distance"`
	WalkDuration    time.Duration `yaml:"walk_duration"`
	TauntCount      int           `yaml:"taunt_count"`
	FlourishAfter   int           `yaml:"flourish_after"` // 第几次嘲讽之后插入攻击动作
}

// TextTiming 飘字
type TextTiming struct {
	OffsetY        float64       `yaml:"offset_y"` // 相对角色位置的起始高度
	Rise           float64       `yaml:"rise"`
	Duration       time.Duration `yaml:"duration"`
	CritScale      float64       `yaml:"crit_scale"`
	ExhaustedScale float64       `yaml:"exhausted_scale"`
}

// DefaultPlaybackConfig 返回内置默认值
// 配置文件中缺省的字段保持这里的值
func DefaultPlaybackConfig() *PlaybackConfig {
	return &PlaybackConfig{
		Step: StepTiming{
			DefenseDelay:   50 * time.Millisecond,
			CommitDelay:    1200 * time.Millisecond,
			ExhaustedPause: 1000 * time.Millisecond,
			InterStepDelay: 1500 * time.Millisecond,
			BarTween:       500 * time.Millisecond,
		},
		Countdown: CountdownTiming{
			Labels:         []string{"3", "2", "1", "Fight!"},
			NumberDuration: 750 * time.Millisecond,
			FinalIn:        500 * time.Millisecond,
			FinalHold:      750 * time.Millisecond,
			FinalOut:       500 * time.Millisecond,
			NumberScale:    2,
			FinalScale:     1.25,
		},
		Approach: ApproachTiming{
			Duration:    1000 * time.Millisecond,
			Offset:      75,
			StatsReveal: 300 * time.Millisecond,
			Settle:      500 * time.Millisecond,
		},
		Victory: VictoryTiming{
			Delay:           1000 * time.Millisecond,
			TitleFade:       1000 * time.Millisecond,
			NameSlide:       800 * time.Millisecond,
			NameSlideOffset: 100,
			WalkDistance:    100,
			WalkDuration:    1000 * time.Millisecond,
			TauntCount:      4,
			FlourishAfter:   2,
		},
		Text: TextTiming{
			OffsetY:        200,
			Rise:           200,
			Duration:       1500 * time.Millisecond,
			CritScale:      2,
			ExhaustedScale: 1.2,
		},
		ResetRestartDelay: 500 * time.Millisecond,
	}
}

// LoadPlaybackConfig 加载回放时序配置
// 以默认值为底，文件中出现的字段覆盖默认值
func LoadPlaybackConfig(path string) (*PlaybackConfig, error) {
	cfg := DefaultPlaybackConfig()
	if err := loadYAML(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置文件 %s 验证失败: %w", path, err)
	}
	return cfg, nil
}

// Validate 校验时序参数
func (c *PlaybackConfig) Validate() error {
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"step.defense_delay", c.Step.DefenseDelay},
		{"step.commit_delay", c.Step.CommitDelay},
		{"step.exhausted_pause", c.Step.ExhaustedPause},
		{"step.inter_step_delay", c.Step.InterStepDelay},
		{"step.bar_tween", c.Step.BarTween},
		{"countdown.number_duration", c.Countdown.NumberDuration},
		{"countdown.final_in", c.Countdown.FinalIn},
		{"countdown.final_hold", c.Countdown.FinalHold},
		{"countdown.final_out", c.Countdown.FinalOut},
		{"approach.duration", c.Approach.Duration},
		{"approach.stats_reveal", c.Approach.StatsReveal},
		{"approach.settle", c.Approach.Settle},
		{"victory.delay", c.Victory.Delay},
		{"victory.title_fade", c.Victory.TitleFade},
		{"victory.name_slide", c.Victory.NameSlide},
		{"victory.walk_duration", c.Victory.WalkDuration},
		{"text.duration", c.Text.Duration},
		{"reset_restart_delay", c.ResetRestartDelay},
	}
	for _, d := range durations {
		if d.d < 0 {
			return fmt.Errorf("%s 不能为负数: %v", d.name, d.d)
		}
	}

	if len(c.Countdown.Labels) == 0 {
		return fmt.Errorf("countdown.labels 不能为空")
	}
	if c.Victory.TauntCount < 0 {
		return fmt.Errorf("victory.taunt_count 不能为负数: %d", c.Victory.TauntCount)
	}
	if c.Victory.FlourishAfter < 0 || c.Victory.FlourishAfter > c.Victory.TauntCount {
		return fmt.Errorf("victory.flourish_after 必须在 [0, %d] 内: %d", c.Victory.TauntCount, c.Victory.FlourishAfter)
	}
	if c.Text.Duration == 0 {
		return fmt.Errorf("text.duration 必须大于 0")
	}
	return nil
}
