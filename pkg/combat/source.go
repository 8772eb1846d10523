package combat

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/decker502/duel/pkg/config"
	"github.com/decker502/duel/pkg/embedded"
	"github.com/decker502/duel/pkg/types"
	"gopkg.in/yaml.v3"
)

// Source 对战记录的提供者
// 失败只报告一次，核心不做重试：回放一份已确定的记录没有可重试的东西
type Source interface {
	LoadCombat(ctx context.Context) (*CombatLog, error)
}

// StaticSource 直接返回内存中的记录
type StaticSource struct {
	Log *CombatLog
}

// LoadCombat 实现 Source
func (s StaticSource) LoadCombat(ctx context.Context) (*CombatLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCannotStart, err)
	}
	if err := s.Log.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCannotStart, err)
	}
	return s.Log, nil
}

// FileSource 从 YAML / JSON 文件读取整数编码的对战记录
// "data/" 开头的路径走嵌入资源（可被磁盘覆盖），其它路径直接读磁盘
type FileSource struct {
	Path string
}

// LoadCombat 实现 Source
func (s FileSource) LoadCombat(ctx context.Context) (*CombatLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCannotStart, err)
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(s.Path, "data/") {
		data, err = embedded.ReadFile(s.Path)
	} else {
		data, err = os.ReadFile(s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrCannotStart, s.Path, err)
	}

	log, err := DecodeCombatLog(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCannotStart, s.Path, err)
	}
	return log, nil
}

// rawCombatLog 文件中的原始形式，指针字段用来区分"缺省"与"0"
type rawCombatLog struct {
	Winner            *uint64               `yaml:"winner"`
	Condition         *int                  `yaml:"condition"`
	GameEngineVersion int                   `yaml:"gameEngineVersion"`
	Source            SourceInfo            `yaml:"source"`
	Player1           *config.FighterConfig `yaml:"player1"`
	Player2           *config.FighterConfig `yaml:"player2"`
	Actions           []rawAction           `yaml:"actions"`
}

type rawAction struct {
	P1Result      *int `yaml:"p1Result"`
	P2Result      *int `yaml:"p2Result"`
	P1Damage      int  `yaml:"p1Damage"`
	P2Damage      int  `yaml:"p2Damage"`
	P1StaminaLost int  `yaml:"p1StaminaLost"`
	P2StaminaLost int  `yaml:"p2StaminaLost"`
}

// DecodeCombatLog 解码整数编码的记录并校验
// 0-11 之外的结果编码保留原值，回放时按未知类别处理（警告并跳过反应）
func DecodeCombatLog(data []byte) (*CombatLog, error) {
	var raw rawCombatLog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode combat log: %w", err)
	}

	switch {
	case raw.Winner == nil:
		return nil, fmt.Errorf("winner: %w", ErrMissingField)
	case raw.Condition == nil:
		return nil, fmt.Errorf("condition: %w", ErrMissingField)
	case raw.Player1 == nil:
		return nil, fmt.Errorf("player1: %w", ErrMissingField)
	case raw.Player2 == nil:
		return nil, fmt.Errorf("player2: %w", ErrMissingField)
	}

	log := &CombatLog{
		Outcome: CombatOutcome{
			WinnerID:  *raw.Winner,
			Condition: types.TerminationCondition(*raw.Condition),
		},
		Player1:           *raw.Player1,
		Player2:           *raw.Player2,
		GameEngineVersion: raw.GameEngineVersion,
		Source:            raw.Source,
		Actions:           make([]CombatAction, 0, len(raw.Actions)),
	}
	log.Player1.ApplyDefaults()
	log.Player2.ApplyDefaults()

	for i, ra := range raw.Actions {
		if ra.P1Result == nil || ra.P2Result == nil {
			return nil, fmt.Errorf("action %d result: %w", i, ErrMissingField)
		}
		log.Actions = append(log.Actions, CombatAction{
			P1Result:      types.ResultType(*ra.P1Result),
			P2Result:      types.ResultType(*ra.P2Result),
			P1Damage:      ra.P1Damage,
			P2Damage:      ra.P2Damage,
			P1StaminaLost: ra.P1StaminaLost,
			P2StaminaLost: ra.P2StaminaLost,
		})
	}

	for _, f := range []config.FighterConfig{log.Player1, log.Player2} {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("fighter: %w: %w", ErrMissingField, err)
		}
	}
	if err := log.Validate(); err != nil {
		return nil, err
	}
	return log, nil
}
