//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
// 移动端没有键盘：轻触屏幕开始回放。
//
// 构建前先把资源复制到本目录（embed 只能嵌入子目录）：
//
//	cp -r ../data ../assets .
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.duel -o build/android/duel.aar -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/duel/pkg/app"
	"github.com/decker502/duel/pkg/embedded"
)

func init() {
	// assetsFS 和 dataFS 在 embed.go 中声明
	embedded.Init(assetsFS, dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    true,
		CombatPath: "data/combat/sample.yaml",
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	// 注册到 ebitenmobile
	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
