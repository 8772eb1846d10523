package types

import "fmt"

// FighterKind 参战者种类，由 ID 区间决定
type FighterKind int

const (
	FighterDefaultPlayer FighterKind = iota // 1 - 2000
	FighterMonster                          // 2001 - 10000
	FighterPlayer                           // 10001 以上
)

// FighterKindOf 根据 ID 判断种类
// ID 为 0 时返回错误
func FighterKindOf(id uint64) (FighterKind, error) {
	switch {
	case id >= 10001:
		return FighterPlayer, nil
	case id >= 2001:
		return FighterMonster, nil
	case id >= 1:
		return FighterDefaultPlayer, nil
	}
	return 0, fmt.Errorf("invalid fighter id: %d", id)
}

func (k FighterKind) String() string {
	switch k {
	case FighterDefaultPlayer:
		return "DefaultPlayer"
	case FighterMonster:
		return "Monster"
	case FighterPlayer:
		return "Player"
	}
	return fmt.Sprintf("FighterKind(%d)", int(k))
}
