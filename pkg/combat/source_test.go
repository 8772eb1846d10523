package combat_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/duel/pkg/combat"
	"github.com/decker502/duel/pkg/types"
)

const validYAML = `
winner: 7
condition: 1
gameEngineVersion: 102
source: {network: Sepolia, block: 42, tx: "0xabc"}
player1: {id: 7, name: Aldric}
player2: {id: 2042, name: Grave Ogre, max_health: 60, max_endurance: 40}
actions:
  - {p1Result: 1, p1Damage: 15, p1StaminaLost: 3, p2Result: 11, p2StaminaLost: 5}
  - {p1Result: 10, p2Result: 42}
`

// TestDecodeCombatLog 整数编码解码
func TestDecodeCombatLog(t *testing.T) {
	log, err := combat.DecodeCombatLog([]byte(validYAML))
	if err != nil {
		t.Fatalf("DecodeCombatLog: %v", err)
	}

	if log.Outcome.WinnerID != 7 || log.Outcome.Condition != types.TerminationExhaustion {
		t.Errorf("outcome = %+v", log.Outcome)
	}
	if log.EngineVersion() != "v1.2" {
		t.Errorf("EngineVersion = %s, want v1.2", log.EngineVersion())
	}
	if log.Source.Network != "Sepolia" || log.Source.Block != 42 || log.Source.TxID != "0xabc" {
		t.Errorf("source = %+v", log.Source)
	}
	// 缺省的上限使用默认值
	if log.Player1.MaxHealth != 100 || log.Player1.MaxEndurance != 50 {
		t.Errorf("player1 defaults = %d/%d", log.Player1.MaxHealth, log.Player1.MaxEndurance)
	}
	if log.Player2.MaxHealth != 60 || log.Player2.Name != "Grave Ogre" {
		t.Errorf("player2 = %+v", log.Player2)
	}

	if len(log.Actions) != 2 {
		t.Fatalf("got %d actions, want 2", len(log.Actions))
	}
	first := log.Actions[0]
	want := combat.CombatAction{
		P1Result: types.ResultAttack, P1Damage: 15, P1StaminaLost: 3,
		P2Result: types.ResultHit, P2StaminaLost: 5,
	}
	if first != want {
		t.Errorf("action 0 = %+v, want %+v", first, want)
	}
	// 未知编码原样保留
	if log.Actions[1].P1Result != types.ResultExhausted || log.Actions[1].P2Result != types.ResultType(42) {
		t.Errorf("action 1 = %+v", log.Actions[1])
	}
	if log.Actions[1].P2Result.IsValid() {
		t.Error("code 42 should not be a valid result")
	}
}

// TestDecodeCombatLogJSON JSON 与 YAML 使用同一套字段
func TestDecodeCombatLogJSON(t *testing.T) {
	data := `{"winner": 9, "condition": 0, "gameEngineVersion": 100,
  "player1": {"id": 7}, "player2": {"id": 9},
  "actions": [{"p1Result": 3, "p2Result": 1, "p2Damage": 8}]}`
	log, err := combat.DecodeCombatLog([]byte(data))
	if err != nil {
		t.Fatalf("DecodeCombatLog(JSON): %v", err)
	}
	if side, ok := log.SideOf(9); !ok || side != types.SidePlayer2 {
		t.Errorf("SideOf(9) = %v, %v", side, ok)
	}
	if log.Actions[0].P1Result != types.ResultBlock || log.Actions[0].P2Damage != 8 {
		t.Errorf("action = %+v", log.Actions[0])
	}
	if log.EngineVersion() != "v1.0" {
		t.Errorf("EngineVersion = %s", log.EngineVersion())
	}
}

// TestDecodeCombatLogErrors 缺少字段与非法数据
func TestDecodeCombatLogErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{
			name: "缺少 winner",
			data: `{condition: 0, player1: {id: 1}, player2: {id: 2}, actions: [{p1Result: 1, p2Result: 11}]}`,
			want: combat.ErrMissingField,
		},
		{
			name: "缺少 condition",
			data: `{winner: 1, player1: {id: 1}, player2: {id: 2}, actions: [{p1Result: 1, p2Result: 11}]}`,
			want: combat.ErrMissingField,
		},
		{
			name: "缺少 player2",
			data: `{winner: 1, condition: 0, player1: {id: 1}, actions: [{p1Result: 1, p2Result: 11}]}`,
			want: combat.ErrMissingField,
		},
		{
			name: "参战者 ID 为 0",
			data: `{winner: 1, condition: 0, player1: {id: 1}, player2: {id: 0}, actions: [{p1Result: 1, p2Result: 11}]}`,
			want: combat.ErrMissingField,
		},
		{
			name: "回合缺少结果",
			data: `{winner: 1, condition: 0, player1: {id: 1}, player2: {id: 2}, actions: [{p1Result: 1}]}`,
			want: combat.ErrMissingField,
		},
		{
			name: "没有回合",
			data: `{winner: 1, condition: 0, player1: {id: 1}, player2: {id: 2}, actions: []}`,
			want: combat.ErrEmptyLog,
		},
		{
			name: "负体力消耗",
			data: `{winner: 1, condition: 0, player1: {id: 1}, player2: {id: 2}, actions: [{p1Result: 1, p2Result: 11, p2StaminaLost: -1}]}`,
			want: combat.ErrInvalidAction,
		},
		{
			name: "双方 ID 相同",
			data: `{winner: 1, condition: 0, player1: {id: 1}, player2: {id: 1}, actions: [{p1Result: 1, p2Result: 11}]}`,
			want: combat.ErrInvalidAction,
		},
		{
			name: "未知结束原因",
			data: `{winner: 1, condition: 7, player1: {id: 1}, player2: {id: 2}, actions: [{p1Result: 1, p2Result: 11}]}`,
			want: combat.ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := combat.DecodeCombatLog([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := combat.DecodeCombatLog([]byte("winner: [")); err == nil {
		t.Error("malformed YAML should fail")
	}
}

// TestFileSource 磁盘路径直接读取；失败包装为 ErrCannotStart
func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "combat.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	log, err := combat.FileSource{Path: path}.LoadCombat(context.Background())
	if err != nil {
		t.Fatalf("LoadCombat: %v", err)
	}
	if len(log.Actions) != 2 {
		t.Errorf("got %d actions", len(log.Actions))
	}

	_, err = combat.FileSource{Path: filepath.Join(dir, "missing.yaml")}.LoadCombat(context.Background())
	if !errors.Is(err, combat.ErrCannotStart) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}

	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte(`{winner: 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = combat.FileSource{Path: broken}.LoadCombat(context.Background())
	if !errors.Is(err, combat.ErrCannotStart) || !errors.Is(err, combat.ErrMissingField) {
		t.Errorf("broken file err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (combat.FileSource{Path: path}).LoadCombat(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled ctx err = %v", err)
	}
}

// TestStaticSource 内存中的记录同样经过校验
func TestStaticSource(t *testing.T) {
	log, err := combat.StaticSource{Log: newLog(hitStep)}.LoadCombat(context.Background())
	if err != nil || len(log.Actions) != 1 {
		t.Fatalf("LoadCombat = %v, %v", log, err)
	}

	_, err = combat.StaticSource{Log: newLog()}.LoadCombat(context.Background())
	if !errors.Is(err, combat.ErrCannotStart) || !errors.Is(err, combat.ErrEmptyLog) {
		t.Errorf("empty log err = %v", err)
	}

	_, err = combat.StaticSource{}.LoadCombat(context.Background())
	if !errors.Is(err, combat.ErrMissingField) {
		t.Errorf("nil log err = %v", err)
	}
}

// TestCombatActionAccessors 按一方取值与派生谓词
func TestCombatActionAccessors(t *testing.T) {
	tests := []struct {
		name      string
		action    combat.CombatAction
		driver    types.Side
		hasDriver bool
		exhausted bool
	}{
		{"玩家2 进攻优先", combat.CombatAction{P1Result: types.ResultCrit, P2Result: types.ResultAttack}, types.SidePlayer2, true, false},
		{"玩家1 进攻", combat.CombatAction{P1Result: types.ResultAttack, P2Result: types.ResultDodge}, types.SidePlayer1, true, false},
		{"无进攻方", combat.CombatAction{P1Result: types.ResultBlock, P2Result: types.ResultParry}, types.SidePlayer1, false, false},
		{"体力耗尽", combat.CombatAction{P1Result: types.ResultAttack, P2Result: types.ResultExhausted}, types.SidePlayer1, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side, ok := tt.action.OffenseDriver()
			if ok != tt.hasDriver || (ok && side != tt.driver) {
				t.Errorf("OffenseDriver = %v, %v", side, ok)
			}
			if _, ex := tt.action.ExhaustedSide(); ex != tt.exhausted {
				t.Errorf("ExhaustedSide = %v, want %v", ex, tt.exhausted)
			}
		})
	}

	a := combat.CombatAction{P1Result: types.ResultBlock, P1Damage: 30, P2Result: types.ResultCounterCrit, P2Damage: 12}
	if a.EffectiveDamage(types.SidePlayer1) != 0 {
		t.Error("BLOCK damage should be ignored")
	}
	if a.EffectiveDamage(types.SidePlayer2) != 12 {
		t.Error("COUNTER_CRIT carries damage")
	}
}
