package scenes

import (
	"github.com/decker502/duel/pkg/game"
)

// Scene is a type alias for game.Scene.
// All scene implementations should implement the game.Scene interface.
type Scene = game.Scene

// 编译期检查
var (
	_ game.Scene      = (*FightScene)(nil)
	_ game.FocusAware = (*FightScene)(nil)
	_ game.Exitable   = (*FightScene)(nil)
)
